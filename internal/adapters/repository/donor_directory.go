package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/lifelink/blood-donation/request-service/internal/config"
	"github.com/lifelink/blood-donation/request-service/internal/core/domain"
	"github.com/lifelink/blood-donation/request-service/internal/core/ports"
)

// SQLDonorDirectory is a read-only adapter over the donor service's database.
// The donor store is owned by another service; this adapter only ever selects
// from it, and every query runs through a circuit breaker so a struggling
// donor store cannot pile up slow calls here.
type SQLDonorDirectory struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var _ ports.DonorDirectory = (*SQLDonorDirectory)(nil)

func NewSQLDonorDirectory(db *sql.DB) *SQLDonorDirectory {
	return &SQLDonorDirectory{
		db: db,
		cb: config.NewCircuitBreaker("DonorDirectory"),
	}
}

func (d *SQLDonorDirectory) FindAvailable(ctx context.Context, types []domain.BloodType, excludeUserID string) ([]domain.DonorCandidate, error) {
	if len(types) == 0 {
		return nil, nil
	}

	groups := make([]string, len(types))
	for i, t := range types {
		groups[i] = string(t)
	}

	result, err := d.cb.Execute(func() (interface{}, error) {
		rows, err := d.db.QueryContext(ctx,
			`SELECT id, user_id, name, email, blood_group, COALESCE(location, ''), availability
			 FROM donors
			 WHERE availability = true
			   AND blood_group = ANY($1)
			   AND user_id <> $2`,
			pq.Array(groups), excludeUserID,
		)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var donors []domain.DonorCandidate
		for rows.Next() {
			donor, err := scanDonor(rows)
			if err != nil {
				return nil, err
			}
			donors = append(donors, *donor)
		}
		return donors, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.DonorCandidate), nil
}

func (d *SQLDonorDirectory) FindByUserID(ctx context.Context, userID string) (*domain.DonorCandidate, error) {
	result, err := d.cb.Execute(func() (interface{}, error) {
		row := d.db.QueryRowContext(ctx,
			`SELECT id, user_id, name, email, blood_group, COALESCE(location, ''), availability
			 FROM donors
			 WHERE user_id = $1`,
			userID,
		)
		donor, err := scanDonor(row)
		if errors.Is(err, sql.ErrNoRows) {
			// A missing profile is a fact, not a failure; it must not trip
			// the breaker.
			return (*domain.DonorCandidate)(nil), nil
		}
		return donor, err
	})
	if err != nil {
		return nil, err
	}
	donor := result.(*domain.DonorCandidate)
	if donor == nil {
		return nil, domain.ErrNoDonorProfile
	}
	return donor, nil
}

func scanDonor(row rowScanner) (*domain.DonorCandidate, error) {
	var donor domain.DonorCandidate
	var bloodGroup string
	err := row.Scan(
		&donor.ID,
		&donor.UserID,
		&donor.Name,
		&donor.Email,
		&bloodGroup,
		&donor.Location,
		&donor.Available,
	)
	if err != nil {
		return nil, err
	}
	donor.BloodGroup = domain.BloodType(bloodGroup)
	return &donor, nil
}
