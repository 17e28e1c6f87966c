package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"

	"github.com/jackc/pgx/v5"
)

type usersRepo struct {
	db querier
}

const userColumns = `id, email, password_hash, role, accepted, push_token, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.PasswordHash, string(u.Role), u.Accepted, nullable(u.PushToken), u.CreatedAt, u.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *usersRepo) GetLoginUser(ctx context.Context, email string, role domain.Role) (domain.User, error) {
	return r.getOne(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email = $1 AND role = $2 AND accepted`, email, string(role))
}

func (r *usersRepo) getOne(ctx context.Context, query string, args ...any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListPendingVolunteers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = 'volunteer' AND NOT accepted
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query pending volunteers: %w", err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) ApproveVolunteer(ctx context.Context, id string) error {
	return expectOne(r.db.Exec(ctx, `
		UPDATE users SET accepted = TRUE, updated_at = $2
		WHERE id = $1 AND role = 'volunteer'`,
		id, time.Now(),
	))
}

func (r *usersRepo) PromoteToCoordinator(ctx context.Context, email string) error {
	return expectOne(r.db.Exec(ctx, `
		UPDATE users SET role = 'coordinator', accepted = TRUE, updated_at = $2
		WHERE email = $1 AND role = 'volunteer'`,
		email, time.Now(),
	))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, hash, time.Now(),
	))
}

func (r *usersRepo) UpdatePushToken(ctx context.Context, id, token string) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE users SET push_token = $2, updated_at = $3 WHERE id = $1`,
		id, nullable(token), time.Now(),
	))
}

func (r *usersRepo) ListPushTokens(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT push_token FROM users
		WHERE role = 'volunteer' AND accepted
		  AND push_token IS NOT NULL AND push_token <> ''
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query push tokens: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		out = append(out, token)
	}
	return out, rows.Err()
}

func (r *usersRepo) DeletePendingVolunteer(ctx context.Context, id string) error {
	return expectOne(r.db.Exec(ctx,
		`DELETE FROM users WHERE id = $1 AND role = 'volunteer' AND NOT accepted`, id))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return expectOne(r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}

func (r *usersRepo) CountCoordinators(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = 'coordinator'`).Scan(&n)
	return n, err
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u         domain.User
		role      string
		pushToken *string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.Accepted, &pushToken, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.PushToken = deref(pushToken)
	return u, nil
}
