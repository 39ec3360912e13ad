package ward

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

const wardCols = `id, name, capacity, location, floor, active, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, w *Ward) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ward (id, name, capacity, location, floor, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		w.ID, w.Name, w.Capacity, w.Location, w.Floor, w.Active,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Ward, error) {
	w, err := scanWard(r.conn(ctx).QueryRow(ctx, `SELECT `+wardCols+` FROM ward WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("ward %s not found", id)
	}
	return w, err
}

func (r *repoPG) GetForUpdate(ctx context.Context, id uuid.UUID) (*Ward, error) {
	w, err := scanWard(r.conn(ctx).QueryRow(ctx, `SELECT `+wardCols+` FROM ward WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("ward %s not found", id)
	}
	return w, err
}

func (r *repoPG) Update(ctx context.Context, w *Ward) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE ward SET name=$2, capacity=$3, location=$4, floor=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		w.ID, w.Name, w.Capacity, w.Location, w.Floor, w.Active,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("ward %s not found", w.ID)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Ward, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ward`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+wardCols+` FROM ward ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var wards []*Ward
	for rows.Next() {
		var w Ward
		if err := rows.Scan(&w.ID, &w.Name, &w.Capacity, &w.Location, &w.Floor, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, err
		}
		wards = append(wards, &w)
	}
	return wards, total, nil
}

func scanWard(row pgx.Row) (*Ward, error) {
	var w Ward
	err := row.Scan(&w.ID, &w.Name, &w.Capacity, &w.Location, &w.Floor, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
