package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
)

type helpRequestsRepo struct {
	db dbtx
}

const helpRequestColumns = `id, requester_name, kind, message, requested_date, time_slot, region,
	street, house_number, postal_code, city, phone,
	accepted, accepted_by, accepted_at, created_at, updated_at`

func (r *helpRequestsRepo) CreateHelpRequest(ctx context.Context, hr domain.HelpRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO help_requests (`+helpRequestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		hr.ID, hr.RequesterName, string(hr.Kind), hr.Message, hr.Date, hr.TimeSlot, hr.Region,
		hr.Address.Street, hr.Address.HouseNumber, hr.Address.PostalCode, hr.Address.City, hr.Phone,
		hr.Accepted, mapStringNull(hr.AcceptedBy), mapOptionalTime(hr.AcceptedAt),
		formatTime(hr.CreatedAt), formatTime(hr.UpdatedAt),
	)
	return mapUnique(err)
}

func (r *helpRequestsRepo) GetHelpRequest(ctx context.Context, id string) (domain.HelpRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+helpRequestColumns+` FROM help_requests WHERE id = ?`, id)
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
		where = append(where, "accepted = 0")
	}
	if f.AcceptedBy != "" {
		where = append(where, "accepted_by = ?")
		args = append(args, f.AcceptedBy)
	}

	query := `SELECT ` + helpRequestColumns + ` FROM help_requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
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
	ts := formatTime(at)
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE help_requests
		SET accepted = 1, accepted_by = ?, accepted_at = ?, updated_at = ?
		WHERE id = ? AND accepted = 0`,
		email, ts, ts, id,
	))
}

func (r *helpRequestsRepo) ReleaseHelpRequest(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE help_requests
		SET accepted = 0, accepted_by = NULL, accepted_at = NULL, updated_at = ?
		WHERE id = ? AND accepted = 1`,
		formatTime(at), id,
	))
}

func (r *helpRequestsRepo) ReleaseHelpRequestHeldBy(ctx context.Context, id, email string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE help_requests
		SET accepted = 0, accepted_by = NULL, accepted_at = NULL, updated_at = ?
		WHERE id = ? AND accepted = 1 AND accepted_by = ?`,
		formatTime(at), id, email,
	))
}

func (r *helpRequestsRepo) DeleteHelpRequest(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM help_requests WHERE id = ?`, id))
}

func (r *helpRequestsRepo) NewestHelpRequestID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM help_requests ORDER BY id DESC LIMIT 1`).Scan(&id)
	if err != nil {
		return "", mapNotFound(err)
	}
	return id, nil
}

func scanHelpRequest(s scanner) (domain.HelpRequest, error) {
	var (
		hr                   domain.HelpRequest
		kind                 string
		acceptedBy, accAt    sql.NullString
		createdAt, updatedAt string
	)
	err := s.Scan(
		&hr.ID, &hr.RequesterName, &kind, &hr.Message, &hr.Date, &hr.TimeSlot, &hr.Region,
		&hr.Address.Street, &hr.Address.HouseNumber, &hr.Address.PostalCode, &hr.Address.City, &hr.Phone,
		&hr.Accepted, &acceptedBy, &accAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.HelpRequest{}, err
	}

	hr.Kind = domain.RequestKind(kind)
	hr.AcceptedBy = mapNullString(acceptedBy)
	if hr.AcceptedAt, err = mapNullTimePtr(accAt); err != nil {
		return domain.HelpRequest{}, err
	}
	if hr.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.HelpRequest{}, err
	}
	if hr.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.HelpRequest{}, err
	}
	return hr, nil
}
