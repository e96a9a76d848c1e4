package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"finmap/internal/domain/pinelabs"
)

type PineLabsRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPineLabsRepository(pool *pgxpool.Pool, log *slog.Logger) *PineLabsRepository {
	return &PineLabsRepository{
		pool: pool,
		log:  log.With("component", "pinelabs_repository"),
	}
}

func (r *PineLabsRepository) ListByMapping(ctx context.Context, mappingID int) ([]pinelabs.Detail, error) {
	const query = `
		SELECT id, mapping_id, user_id, pos_id, tid, serial_no, store_id
		FROM pinelabs_details
		WHERE mapping_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, mappingID)
	if err != nil {
		r.log.Error("failed to list details", "mapping_id", mappingID, "error", err)
		return nil, fmt.Errorf("list details: %w", err)
	}
	defer rows.Close()

	var details []pinelabs.Detail
	for rows.Next() {
		var d pinelabs.Detail
		if err := rows.Scan(&d.ID, &d.MappingID, &d.UserID, &d.PosID, &d.TID, &d.SerialNo, &d.StoreID); err != nil {
			return nil, fmt.Errorf("scan detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *PineLabsRepository) ListByOwner(ctx context.Context, userID int) ([]pinelabs.Row, error) {
	const query = `
		SELECT d.id, d.mapping_id, d.user_id, d.pos_id, d.tid, d.serial_no, d.store_id,
		       m.store_name, m.brand
		FROM pinelabs_details d
		JOIN finance_mappings m ON m.id = d.mapping_id
		WHERE m.user_id = $1
		ORDER BY d.id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list details by owner", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list details by owner: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *PineLabsRepository) ListAll(ctx context.Context) ([]pinelabs.Row, error) {
	const query = `
		SELECT d.id, d.mapping_id, d.user_id, d.pos_id, d.tid, d.serial_no, d.store_id,
		       m.store_name, m.brand
		FROM pinelabs_details d
		JOIN finance_mappings m ON m.id = d.mapping_id
		ORDER BY d.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list all details", "error", err)
		return nil, fmt.Errorf("list all details: %w", err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *PineLabsRepository) Get(ctx context.Context, detailID int) (*pinelabs.Detail, error) {
	const query = `
		SELECT id, mapping_id, user_id, pos_id, tid, serial_no, store_id
		FROM pinelabs_details
		WHERE id = $1`

	var d pinelabs.Detail
	err := r.pool.QueryRow(ctx, query, detailID).
		Scan(&d.ID, &d.MappingID, &d.UserID, &d.PosID, &d.TID, &d.SerialNo, &d.StoreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pinelabs.ErrDetailNotFound
		}
		r.log.Error("failed to get detail", "detail_id", detailID, "error", err)
		return nil, fmt.Errorf("get detail: %w", err)
	}
	return &d, nil
}

// InsertBatch persists the rows inside one transaction so a mid-batch
// failure never leaves a partial insert behind. Ids are returned in
// insertion order.
func (r *PineLabsRepository) InsertBatch(ctx context.Context, details []pinelabs.Detail) ([]pinelabs.Detail, error) {
	if len(details) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin insert batch: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO pinelabs_details (mapping_id, user_id, pos_id, tid, serial_no, store_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	inserted := make([]pinelabs.Detail, 0, len(details))
	for _, d := range details {
		err := tx.QueryRow(ctx, query, d.MappingID, d.UserID, d.PosID, d.TID, d.SerialNo, d.StoreID).
			Scan(&d.ID)
		if err != nil {
			r.log.Error("failed to insert detail", "mapping_id", d.MappingID, "error", err)
			return nil, fmt.Errorf("insert detail: %w", err)
		}
		inserted = append(inserted, d)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit insert batch: %w", err)
	}
	return inserted, nil
}

func (r *PineLabsRepository) Update(ctx context.Context, detail *pinelabs.Detail) error {
	const query = `
		UPDATE pinelabs_details
		SET pos_id = $1, tid = $2, serial_no = $3, store_id = $4
		WHERE id = $5 AND mapping_id = $6`

	result, err := r.pool.Exec(ctx, query,
		detail.PosID, detail.TID, detail.SerialNo, detail.StoreID,
		detail.ID, detail.MappingID)
	if err != nil {
		r.log.Error("failed to update detail", "detail_id", detail.ID, "error", err)
		return fmt.Errorf("update detail: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pinelabs.ErrDetailNotFound
	}
	return nil
}

func (r *PineLabsRepository) DeleteBatch(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.pool.Exec(ctx,
		`DELETE FROM pinelabs_details WHERE id = ANY($1)`, ids)
	if err != nil {
		r.log.Error("failed to delete details", "count", len(ids), "error", err)
		return fmt.Errorf("delete details: %w", err)
	}
	return nil
}

func (r *PineLabsRepository) DeleteByMapping(ctx context.Context, mappingID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM pinelabs_details WHERE mapping_id = $1`, mappingID)
	if err != nil {
		r.log.Error("failed to delete details by mapping", "mapping_id", mappingID, "error", err)
		return fmt.Errorf("delete details by mapping: %w", err)
	}
	return nil
}

func (r *PineLabsRepository) scanRows(rows pgx.Rows) ([]pinelabs.Row, error) {
	var out []pinelabs.Row
	for rows.Next() {
		var row pinelabs.Row
		err := rows.Scan(
			&row.ID, &row.MappingID, &row.UserID, &row.PosID, &row.TID,
			&row.SerialNo, &row.StoreID, &row.StoreName, &row.Brand,
		)
		if err != nil {
			return nil, fmt.Errorf("scan detail row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
