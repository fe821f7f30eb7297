package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SurveyCellRow is one discovered cell as persisted. Descriptors are not
// stored since the seed regenerates them; only the fact of discovery and
// a few diagnostics are worth keeping across runs.
type SurveyCellRow struct {
	X           int
	Y           int
	Seed        int64
	EntityCount int
}

// Checkpoint is the last persisted focus position.
type Checkpoint struct {
	X    int
	Y    int
	Tick int64
}

type SurveyRepo struct {
	db *DB
}

func NewSurveyRepo(db *DB) *SurveyRepo {
	return &SurveyRepo{db: db}
}

// EnsureWorld claims the database for the given fingerprint, or fails when
// it already belongs to a differently generated world.
func (r *SurveyRepo) EnsureWorld(ctx context.Context, fingerprint string) error {
	var existing string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT fingerprint FROM world_meta WHERE id = 1`,
	).Scan(&existing)
	if errors.Is(err, pgx.ErrNoRows) {
		_, err = r.db.Pool.Exec(ctx,
			`INSERT INTO world_meta (id, fingerprint) VALUES (1, $1)`, fingerprint)
		return err
	}
	if err != nil {
		return err
	}
	if existing != fingerprint {
		return fmt.Errorf("survey database holds world %s, current world is %s", existing, fingerprint)
	}
	return nil
}

// RecordCells upserts a batch of discovered cells in one transaction.
// Revisits bump the visit counter and refresh last_seen.
func (r *SurveyRepo) RecordCells(ctx context.Context, rows []SurveyCellRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("survey begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO survey_cells (x, y, seed, entity_count)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (x, y) DO UPDATE
			 SET entity_count = EXCLUDED.entity_count,
			     last_seen    = NOW(),
			     visits       = survey_cells.visits + 1`,
			row.X, row.Y, row.Seed, row.EntityCount,
		); err != nil {
			return fmt.Errorf("survey upsert (%d,%d): %w", row.X, row.Y, err)
		}
	}

	return tx.Commit(ctx)
}

// CountSurveyed reports how many distinct cells have ever been discovered.
func (r *SurveyRepo) CountSurveyed(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM survey_cells`).Scan(&n)
	return n, err
}

// SaveCheckpoint stores the focus position so the next run resumes there.
func (r *SurveyRepo) SaveCheckpoint(ctx context.Context, cp Checkpoint) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO flight_checkpoint (id, x, y, tick)
		 VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET x = EXCLUDED.x, y = EXCLUDED.y, tick = EXCLUDED.tick, saved_at = NOW()`,
		cp.X, cp.Y, cp.Tick,
	)
	return err
}

// LoadCheckpoint returns the saved focus position, or nil when none exists.
func (r *SurveyRepo) LoadCheckpoint(ctx context.Context) (*Checkpoint, error) {
	cp := &Checkpoint{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT x, y, tick FROM flight_checkpoint WHERE id = 1`,
	).Scan(&cp.X, &cp.Y, &cp.Tick)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cp, nil
}
