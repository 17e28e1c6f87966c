package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, password_hash, role, accepted, push_token, created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, string(u.Role), u.Accepted, mapStringNull(u.PushToken),
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
	)
	return mapUnique(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *usersRepo) GetLoginUser(ctx context.Context, email string, role domain.Role) (domain.User, error) {
	return r.getOne(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE email = ? AND role = ? AND accepted = 1`, email, string(role))
}

func (r *usersRepo) getOne(ctx context.Context, query string, args ...any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListPendingVolunteers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = 'volunteer' AND accepted = 0
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
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
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE users SET accepted = 1, updated_at = ?
		WHERE id = ? AND role = 'volunteer'`,
		formatTime(time.Now()), id,
	))
}

func (r *usersRepo) PromoteToCoordinator(ctx context.Context, email string) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE users SET role = 'coordinator', accepted = 1, updated_at = ?
		WHERE email = ? AND role = 'volunteer'`,
		formatTime(time.Now()), email,
	))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, formatTime(time.Now()), id,
	))
}

func (r *usersRepo) UpdatePushToken(ctx context.Context, id, token string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET push_token = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(token), formatTime(time.Now()), id,
	))
}

func (r *usersRepo) ListPushTokens(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT push_token FROM users
		WHERE role = 'volunteer' AND accepted = 1
		  AND push_token IS NOT NULL AND push_token <> ''
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
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
	return expectOne(r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = ? AND role = 'volunteer' AND accepted = 0`, id))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id))
}

func (r *usersRepo) CountCoordinators(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'coordinator'`).Scan(&n)
	return n, err
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u                    domain.User
		role                 string
		pushToken            sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.Accepted, &pushToken, &createdAt, &updatedAt); err != nil {
		return domain.User{}, err
	}

	u.Role = domain.Role(role)
	u.PushToken = mapNullString(pushToken)

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.User{}, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

var _ store.Users = (*usersRepo)(nil)
