package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"finmap/internal/domain/mapping"
)

type MappingRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewMappingRepository(pool *pgxpool.Pool, log *slog.Logger) *MappingRepository {
	return &MappingRepository{
		pool: pool,
		log:  log.With("component", "mapping_repository"),
	}
}

const mappingColumns = `id, user_id, store_name, brand, financier, store_code, mid, requester, created_at`

func (r *MappingRepository) List(ctx context.Context, userID int) ([]mapping.Mapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM finance_mappings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list mappings", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	return r.scanMappings(rows)
}

func (r *MappingRepository) ListAll(ctx context.Context) ([]mapping.Mapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM finance_mappings
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list all mappings", "error", err)
		return nil, fmt.Errorf("list all mappings: %w", err)
	}
	defer rows.Close()

	return r.scanMappings(rows)
}

func (r *MappingRepository) Search(ctx context.Context, userID int, criteria mapping.SearchCriteria) ([]mapping.Mapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM finance_mappings
		WHERE 1=1`

	var args []interface{}
	argIndex := 1

	if userID > 0 {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, userID)
		argIndex++
	}

	if criteria.Term != "" {
		query += fmt.Sprintf(
			" AND (store_name ILIKE $%d OR brand ILIKE $%d OR financier ILIKE $%d OR store_code ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex)
		args = append(args, "%"+criteria.Term+"%")
		argIndex++
	}

	if criteria.Brand != "" {
		query += fmt.Sprintf(" AND brand = $%d", argIndex)
		args = append(args, criteria.Brand)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if criteria.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, criteria.Limit)
		argIndex++

		if criteria.Offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, criteria.Offset)
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to search mappings", "error", err)
		return nil, fmt.Errorf("search mappings: %w", err)
	}
	defer rows.Close()

	return r.scanMappings(rows)
}

func (r *MappingRepository) Get(ctx context.Context, mappingID int) (*mapping.Mapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM finance_mappings
		WHERE id = $1`

	var m mapping.Mapping
	err := r.pool.QueryRow(ctx, query, mappingID).Scan(
		&m.ID, &m.UserID, &m.StoreName, &m.Brand, &m.Financier,
		&m.StoreCode, &m.MID, &m.Requester, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mapping.ErrNotFound
		}
		r.log.Error("failed to get mapping", "mapping_id", mappingID, "error", err)
		return nil, fmt.Errorf("get mapping: %w", err)
	}

	return &m, nil
}

func (r *MappingRepository) GetOwner(ctx context.Context, mappingID int) (int, error) {
	var ownerID int
	err := r.pool.QueryRow(ctx,
		`SELECT user_id FROM finance_mappings WHERE id = $1`, mappingID).
		Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, mapping.ErrNotFound
		}
		r.log.Error("failed to get mapping owner", "mapping_id", mappingID, "error", err)
		return 0, fmt.Errorf("get mapping owner: %w", err)
	}
	return ownerID, nil
}

func (r *MappingRepository) Create(ctx context.Context, m *mapping.Mapping) (int, error) {
	const query = `
		INSERT INTO finance_mappings (user_id, store_name, brand, financier, store_code, mid, requester)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		m.UserID, m.StoreName, m.Brand, m.Financier, m.StoreCode, m.MID, m.Requester,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		r.log.Error("failed to create mapping", "user_id", m.UserID, "error", err)
		return 0, fmt.Errorf("create mapping: %w", err)
	}

	return m.ID, nil
}

func (r *MappingRepository) Update(ctx context.Context, m *mapping.Mapping) error {
	const query = `
		UPDATE finance_mappings
		SET store_name = $1, brand = $2, financier = $3, store_code = $4, mid = $5, requester = $6
		WHERE id = $7`

	result, err := r.pool.Exec(ctx, query,
		m.StoreName, m.Brand, m.Financier, m.StoreCode, m.MID, m.Requester, m.ID)
	if err != nil {
		r.log.Error("failed to update mapping", "mapping_id", m.ID, "error", err)
		return fmt.Errorf("update mapping: %w", err)
	}

	if result.RowsAffected() == 0 {
		return mapping.ErrNotFound
	}
	return nil
}

func (r *MappingRepository) Delete(ctx context.Context, mappingID int) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM finance_mappings WHERE id = $1`, mappingID)
	if err != nil {
		r.log.Error("failed to delete mapping", "mapping_id", mappingID, "error", err)
		return fmt.Errorf("delete mapping: %w", err)
	}

	if result.RowsAffected() == 0 {
		return mapping.ErrNotFound
	}
	return nil
}

func (r *MappingRepository) FindDuplicate(ctx context.Context, m *mapping.Mapping) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM finance_mappings
		 WHERE store_name = $1 AND brand = $2 AND financier = $3
		 LIMIT 1`,
		m.StoreName, m.Brand, m.Financier).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, mapping.ErrNotFound
		}
		return 0, fmt.Errorf("find duplicate: %w", err)
	}
	return id, nil
}

func (r *MappingRepository) scanMappings(rows pgx.Rows) ([]mapping.Mapping, error) {
	var mappings []mapping.Mapping
	for rows.Next() {
		var m mapping.Mapping
		err := rows.Scan(
			&m.ID, &m.UserID, &m.StoreName, &m.Brand, &m.Financier,
			&m.StoreCode, &m.MID, &m.Requester, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
