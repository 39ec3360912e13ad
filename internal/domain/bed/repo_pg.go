package bed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/hms/internal/domain/ward"
	"github.com/medicore/hms/internal/platform/apperr"
	"github.com/medicore/hms/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const bedCols = `id, ward_id, bed_number, status, description, admission_id, created_at, updated_at`

// Create inserts the bed only while the ward still has headroom. The ward row
// is locked FOR UPDATE first, so concurrent creates on the same ward serialize
// and the count check cannot run against a stale snapshot.
func (r *repoPG) Create(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	return db.InTx(ctx, func(ctx context.Context) error {
		var capacity int
		err := r.conn(ctx).QueryRow(ctx,
			`SELECT capacity FROM ward WHERE id = $1 FOR UPDATE`, b.WardID,
		).Scan(&capacity)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("ward %s not found", b.WardID)
		}
		if err != nil {
			return err
		}

		var count int
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT COUNT(*) FROM bed WHERE ward_id = $1`, b.WardID,
		).Scan(&count); err != nil {
			return err
		}
		if count >= capacity {
			return apperr.Conflict("ward is at bed capacity")
		}

		_, err = r.conn(ctx).Exec(ctx, `
			INSERT INTO bed (id, ward_id, bed_number, status, description)
			VALUES ($1, $2, $3, $4, $5)`,
			b.ID, b.WardID, b.BedNumber, b.Status, b.Description,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return apperr.Conflict("bed number %q already exists in ward", b.BedNumber)
			}
			return err
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bed, error) {
	b, err := scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("bed %s not found", id)
	}
	return b, err
}

func (r *repoPG) ListByWard(ctx context.Context, wardID uuid.UUID) ([]*Bed, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+bedCols+` FROM bed WHERE ward_id = $1 ORDER BY bed_number`, wardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBeds(rows)
}

func (r *repoPG) ListAvailable(ctx context.Context, wardID *uuid.UUID) ([]*Bed, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if wardID != nil {
		rows, err = r.conn(ctx).Query(ctx,
			`SELECT `+bedCols+` FROM bed WHERE status = $1 AND ward_id = $2 ORDER BY bed_number`,
			StatusAvailable, *wardID)
	} else {
		rows, err = r.conn(ctx).Query(ctx,
			`SELECT `+bedCols+` FROM bed WHERE status = $1 ORDER BY ward_id, bed_number`,
			StatusAvailable)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBeds(rows)
}

// UpdateStatus is the check-and-set on the bed row: the WHERE clause carries
// the expected status, so a concurrent writer that got there first leaves
// zero affected rows and the caller gets a conflict, never a lost update.
func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, admissionID *uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status = $3, admission_id = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to, admissionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current Status
	err = r.conn(ctx).QueryRow(ctx, `SELECT status FROM bed WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("bed %s not found", id)
	}
	if err != nil {
		return err
	}
	return apperr.Conflict("bed is %s, expected %s", current, from)
}

// Release conditions on both the status and the owning admission, so a caller
// holding a stale bed reference cannot free a bed someone else now holds.
func (r *repoPG) Release(ctx context.Context, id, admissionID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET status = $3, admission_id = NULL, updated_at = NOW()
		WHERE id = $1 AND status = $4 AND admission_id = $2`,
		id, admissionID, StatusAvailable, StatusOccupied,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var (
		current Status
		holder  *uuid.UUID
	)
	err = r.conn(ctx).QueryRow(ctx, `SELECT status, admission_id FROM bed WHERE id = $1`, id).Scan(&current, &holder)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("bed %s not found", id)
	}
	if err != nil {
		return err
	}
	if current != StatusOccupied {
		return apperr.Conflict("bed is %s, expected %s", current, StatusOccupied)
	}
	return apperr.Conflict("bed is held by another admission")
}

func (r *repoPG) CountByWard(ctx context.Context, wardID uuid.UUID) (ward.BedCounts, error) {
	var counts ward.BedCounts
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $2),
		       COUNT(*) FILTER (WHERE status = $3)
		FROM bed WHERE ward_id = $1`,
		wardID, StatusOccupied, StatusAvailable,
	).Scan(&counts.Total, &counts.Occupied, &counts.Available)
	return counts, err
}

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.WardID, &b.BedNumber, &b.Status, &b.Description, &b.AdmissionID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBeds(rows pgx.Rows) ([]*Bed, error) {
	var beds []*Bed
	for rows.Next() {
		var b Bed
		if err := rows.Scan(&b.ID, &b.WardID, &b.BedNumber, &b.Status, &b.Description, &b.AdmissionID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		beds = append(beds, &b)
	}
	return beds, nil
}
