package occupancy

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

const statsQuery = `
	SELECT w.id, w.name, w.capacity,
	       COUNT(b.id),
	       COUNT(b.id) FILTER (WHERE b.status = 'OCCUPIED'),
	       COUNT(b.id) FILTER (WHERE b.status = 'AVAILABLE'),
	       COUNT(b.id) FILTER (WHERE b.status = 'RESERVED'),
	       COUNT(b.id) FILTER (WHERE b.status = 'MAINTENANCE')
	FROM ward w
	LEFT JOIN bed b ON b.ward_id = w.id`

func (r *repoPG) WardStats(ctx context.Context, wardID uuid.UUID) (*WardStats, error) {
	var s WardStats
	err := r.conn(ctx).QueryRow(ctx, statsQuery+` WHERE w.id = $1 GROUP BY w.id, w.name, w.capacity`, wardID).
		Scan(&s.WardID, &s.WardName, &s.Capacity, &s.TotalBeds, &s.Occupied, &s.Available, &s.Reserved, &s.Maintenance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("ward %s not found", wardID)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) AllWardStats(ctx context.Context) ([]*WardStats, error) {
	rows, err := r.conn(ctx).Query(ctx, statsQuery+` GROUP BY w.id, w.name, w.capacity ORDER BY w.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*WardStats
	for rows.Next() {
		var s WardStats
		if err := rows.Scan(&s.WardID, &s.WardName, &s.Capacity, &s.TotalBeds, &s.Occupied, &s.Available, &s.Reserved, &s.Maintenance); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}
	return stats, nil
}
