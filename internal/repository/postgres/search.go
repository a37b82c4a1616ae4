package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

type SearchRepo struct {
	db *DB
}

func NewSearchRepo(db *DB) *SearchRepo {
	return &SearchRepo{db: db}
}

func (r *SearchRepo) Create(ctx context.Context, record *domain.SearchRecord) error {
	query := `
        INSERT INTO searches (user_id, kind, query, result_count)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `

	err := r.db.Pool.QueryRow(ctx, query,
		record.UserID,
		string(record.Kind),
		record.Query,
		record.ResultCount,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("create search record: %w", err)
	}

	return nil
}

// ListRecent returns the user's newest records first. A limit <= 0 returns all.
func (r *SearchRepo) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.SearchRecord, error) {
	query := `
        SELECT id, user_id, kind, query, result_count, created_at
        FROM searches
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `

	// LIMIT NULL means no limit
	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := r.db.Pool.Query(ctx, query, userID, lim)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SearchRecord, error) {
		var (
			rec  domain.SearchRecord
			kind string
		)
		err := row.Scan(&rec.ID, &rec.UserID, &kind, &rec.Query, &rec.ResultCount, &rec.CreatedAt)
		rec.Kind = domain.SearchKind(kind)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan searches: %w", err)
	}

	return records, nil
}
