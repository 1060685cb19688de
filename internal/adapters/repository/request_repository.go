package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
)

// SQLRequestRepository persists blood requests in PostgreSQL.
type SQLRequestRepository struct {
	db *sql.DB
}

var _ ports.RequestRepository = (*SQLRequestRepository)(nil)

func NewSQLRequestRepository(db *sql.DB) *SQLRequestRepository {
	return &SQLRequestRepository{db: db}
}

const requestColumns = `id, requester_id, COALESCE(donor_id, ''), patient_name, blood_group,
	units, hospital_name, location, contact_number, needed_date, is_emergency, status,
	COALESCE(note, ''), created_at`

func (r *SQLRequestRepository) Create(ctx context.Context, req *domain.Request) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO requests
			(id, requester_id, patient_name, blood_group, units, hospital_name,
			 location, contact_number, needed_date, is_emergency, status, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13)`,
		req.ID,
		req.RequesterID,
		req.PatientName,
		string(req.BloodGroup),
		req.Units,
		req.HospitalName,
		req.Location,
		req.ContactNumber,
		req.NeededDate,
		req.IsEmergency,
		string(req.Status),
		req.Note,
		req.CreatedAt,
	)
	return err
}

func (r *SQLRequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)

	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *SQLRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE 1=1`
	args := []any{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` AND status = $1`
	} else if filter.ExcludeCompleted {
		query += ` AND status <> 'completed'`
	}
	if filter.IsEmergency != nil {
		args = append(args, *filter.IsEmergency)
		if len(args) == 1 {
			query += ` AND is_emergency = $1`
		} else {
			query += ` AND is_emergency = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// UpdateStatus is the compare-and-set primitive behind every lifecycle
// transition: the row changes only if its status still equals `from`, so a
// transition decided against a stale read can never commit.
func (r *SQLRequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, donorID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE requests
		 SET status = $3, donor_id = COALESCE(NULLIF($4, ''), donor_id)
		 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), donorID,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *SQLRequestRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var req domain.Request
	var bloodGroup, status string
	err := row.Scan(
		&req.ID,
		&req.RequesterID,
		&req.DonorID,
		&req.PatientName,
		&bloodGroup,
		&req.Units,
		&req.HospitalName,
		&req.Location,
		&req.ContactNumber,
		&req.NeededDate,
		&req.IsEmergency,
		&status,
		&req.Note,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.BloodGroup = domain.BloodType(bloodGroup)
	req.Status = domain.Status(status)
	return &req, nil
}
