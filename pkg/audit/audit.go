// pkg/audit/audit.go
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/config"
	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// Recorder persists schema-resolution provenance for later review.
// Implementations must tolerate being called once per upload with the full
// operation batch for that upload.
type Recorder interface {
	Record(ctx context.Context, uploadID string, ops []model.ResolutionOperation) error
	Close() error
}

// NopRecorder discards all operations. Used when auditing is not configured.
type NopRecorder struct{}

// Record discards the batch
func (NopRecorder) Record(context.Context, string, []model.ResolutionOperation) error { return nil }

// Close is a no-op
func (NopRecorder) Close() error { return nil }

// PostgresRecorder batch-inserts resolution operations into a tracking
// table. Only provenance records are stored here, never ledger rows.
type PostgresRecorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresRecorder connects to the audit database and ensures the
// tracking table exists
func NewPostgresRecorder(cfg *config.AuditConfig, logger *zap.Logger) (*PostgresRecorder, error) {
	if cfg == nil {
		return nil, errors.New("audit configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	db, err := sqlx.Connect("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	recorder := &PostgresRecorder{
		db:     db,
		logger: logger,
	}

	if err := recorder.setupTrackingTable(); err != nil {
		return nil, fmt.Errorf("failed to setup tracking table: %w", err)
	}

	return recorder, nil
}

// setupTrackingTable ensures the schema_resolutions tracking table exists
func (r *PostgresRecorder) setupTrackingTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS public.schema_resolutions (
			id SERIAL PRIMARY KEY,
			upload_id TEXT NOT NULL,
			canonical_field TEXT NOT NULL,
			original_column TEXT,
			tier TEXT NOT NULL,
			detail TEXT NOT NULL,
			resolved_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	r.logger.Info("Ensured schema_resolutions table exists")
	return nil
}

// resolutionRow is the insert shape for one provenance record
type resolutionRow struct {
	UploadID       string    `db:"upload_id"`
	CanonicalField string    `db:"canonical_field"`
	OriginalColumn string    `db:"original_column"`
	Tier           string    `db:"tier"`
	Detail         string    `db:"detail"`
	ResolvedAt     time.Time `db:"resolved_at"`
}

// Record batch-inserts the operations of one upload inside a transaction
func (r *PostgresRecorder) Record(ctx context.Context, uploadID string, ops []model.ResolutionOperation) error {
	if len(ops) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO public.schema_resolutions
		(upload_id, canonical_field, original_column, tier, detail, resolved_at)
		VALUES (:upload_id, :canonical_field, :original_column, :tier, :detail, :resolved_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		_, err = stmt.ExecContext(ctx, resolutionRow{
			UploadID:       uploadID,
			CanonicalField: op.CanonicalField,
			OriginalColumn: op.OriginalColumn,
			Tier:           op.Tier,
			Detail:         op.Detail,
			ResolvedAt:     op.ResolvedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to insert resolution operation: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Recorded resolution operations",
		zap.String("uploadID", uploadID),
		zap.Int("count", len(ops)))
	return nil
}

// Close releases the database connection pool
func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
