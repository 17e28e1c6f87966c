package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"

	"github.com/jackc/pgx/v5"
)

type helpRequestsRepo struct {
	db querier
}

const helpRequestColumns = `id, requester_name, kind, message, requested_date, time_slot, region,
	street, house_number, postal_code, city, phone,
	accepted, accepted_by, accepted_at, created_at, updated_at`

func (r *helpRequestsRepo) CreateHelpRequest(ctx context.Context, hr domain.HelpRequest) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO help_requests (`+helpRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		hr.ID, hr.RequesterName, string(hr.Kind), hr.Message, hr.Date, hr.TimeSlot, hr.Region,
		hr.Address.Street, hr.Address.HouseNumber, hr.Address.PostalCode, hr.Address.City, hr.Phone,
		hr.Accepted, nullable(hr.AcceptedBy), hr.AcceptedAt, hr.CreatedAt, hr.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *helpRequestsRepo) GetHelpRequest(ctx context.Context, id string) (domain.HelpRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+helpRequestColumns+` FROM help_requests WHERE id = $1`, id)
	hr, err := scanHelpRequest(row)
	if err != nil {
		return domain.HelpRequest{}, mapNotFound(err)
	}
	return hr, nil
}

func (r *helpRequestsRepo) ListHelpRequests(ctx context.Context, f domain.RequestFilter) ([]domain.HelpRequest, error) {
	var (
		where []string
		args  []any
	)
	if f.OnlyOpen {
		where = append(where, "NOT accepted")
	}
	if f.AcceptedBy != "" {
		args = append(args, f.AcceptedBy)
		where = append(where, fmt.Sprintf("accepted_by = $%d", len(args)))
	}

	query := `SELECT ` + helpRequestColumns + ` FROM help_requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query help requests: %w", err)
	}
	defer rows.Close()

	out := []domain.HelpRequest{}
	for rows.Next() {
		hr, err := scanHelpRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, hr)
	}
	return out, rows.Err()
}

func (r *helpRequestsRepo) AcceptHelpRequest(ctx context.Context, id, email string, at time.Time) error {
	return expectOne(r.db.Exec(ctx, `
		UPDATE help_requests
		SET accepted = TRUE, accepted_by = $2, accepted_at = $3, updated_at = $3
		WHERE id = $1 AND NOT accepted`,
		id, email, at,
	))
}

func (r *helpRequestsRepo) ReleaseHelpRequest(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.Exec(ctx, `
		UPDATE help_requests
		SET accepted = FALSE, accepted_by = NULL, accepted_at = NULL, updated_at = $2
		WHERE id = $1 AND accepted`,
		id, at,
	))
}

func (r *helpRequestsRepo) ReleaseHelpRequestHeldBy(ctx context.Context, id, email string, at time.Time) error {
	return expectOne(r.db.Exec(ctx, `
		UPDATE help_requests
		SET accepted = FALSE, accepted_by = NULL, accepted_at = NULL, updated_at = $3
		WHERE id = $1 AND accepted AND accepted_by = $2`,
		id, email, at,
	))
}

func (r *helpRequestsRepo) DeleteHelpRequest(ctx context.Context, id string) error {
	return expectOne(r.db.Exec(ctx, `DELETE FROM help_requests WHERE id = $1`, id))
}

func (r *helpRequestsRepo) NewestHelpRequestID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `SELECT id FROM help_requests ORDER BY id DESC LIMIT 1`).Scan(&id)
	if err != nil {
		return "", mapNotFound(err)
	}
	return id, nil
}

func scanHelpRequest(row pgx.Row) (domain.HelpRequest, error) {
	var (
		hr         domain.HelpRequest
		kind       string
		acceptedBy *string
	)
	err := row.Scan(
		&hr.ID, &hr.RequesterName, &kind, &hr.Message, &hr.Date, &hr.TimeSlot, &hr.Region,
		&hr.Address.Street, &hr.Address.HouseNumber, &hr.Address.PostalCode, &hr.Address.City, &hr.Phone,
		&hr.Accepted, &acceptedBy, &hr.AcceptedAt, &hr.CreatedAt, &hr.UpdatedAt,
	)
	if err != nil {
		return domain.HelpRequest{}, err
	}
	hr.Kind = domain.RequestKind(kind)
	hr.AcceptedBy = deref(acceptedBy)
	return hr, nil
}
