package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"iris_api/internal/domain"
	"iris_api/internal/domain/entity"
	"iris_api/internal/domain/value"
	"iris_api/migrations"
	"iris_api/pkg/errcodes"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Migrate applies the embedded schema. Every migration is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, name := range migrations.Files() {
		query, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations.FS.ReadFile: %w", err)
		}

		if _, err = db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("db.ExecContext(%s): %w", name, err)
		}
	}

	return nil
}

func (r *PredictionRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create stores a record. Storing the same id twice is a no-op, so a
// redelivered task never duplicates a row.
func (r *PredictionRepository) Create(ctx context.Context, record entity.PredictionRecord) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		return r.createTx(ctx, tx, record)
	})
}

// CreateBatch stores all records atomically.
func (r *PredictionRepository) CreateBatch(ctx context.Context, records []entity.PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		for i, record := range records {
			if err := r.createTx(ctx, tx, record); err != nil {
				return domain.WrapError(err, errcodes.PredictionNotStored,
					fmt.Sprintf("failed at index %d", i))
			}
		}

		return nil
	})
}

// ListRecent returns up to limit records, newest first.
func (r *PredictionRepository) ListRecent(ctx context.Context, limit int) ([]entity.PredictionRecord, error) {
	query := `
		SELECT id, trace_id, model_version, sepal_length, sepal_width, petal_length, petal_width,
		       species, confidence, probabilities, created_at
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	var schemas []predictionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list predictions")
	}

	records := make([]entity.PredictionRecord, 0, len(schemas))

	for _, s := range schemas {
		record, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert prediction")
		}

		records = append(records, record)
	}

	return records, nil
}

// CountBySpecies returns how often each species was predicted. Species
// never predicted are present with zero.
func (r *PredictionRepository) CountBySpecies(ctx context.Context) (map[value.Species]int, error) {
	query := `
		SELECT species, COUNT(*) AS total
		FROM predictions
		GROUP BY species`

	var rows []struct {
		Species string `db:"species"`
		Total   int    `db:"total"`
	}

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to count predictions")
	}

	counts := make(map[value.Species]int, value.SpeciesCount)
	for _, species := range value.AllSpecies() {
		counts[species] = 0
	}

	for _, row := range rows {
		species, err := value.ParseSpecies(row.Species)
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "unexpected species in journal")
		}

		counts[species] = row.Total
	}

	return counts, nil
}

func (r *PredictionRepository) createTx(ctx context.Context, tx *sqlx.Tx, record entity.PredictionRecord) error {
	schema, err := fromPredictionRecord(record)
	if err != nil {
		return domain.WrapError(err, errcodes.PredictionNotStored, "failed to encode prediction")
	}

	query := `
		INSERT INTO predictions (id, trace_id, model_version, sepal_length, sepal_width, petal_length,
		                         petal_width, species, confidence, probabilities, created_at)
		VALUES (:id, :trace_id, :model_version, :sepal_length, :sepal_width, :petal_length,
		        :petal_width, :species, :confidence, :probabilities, :created_at)
		ON CONFLICT (id) DO NOTHING`

	if _, err = tx.NamedExecContext(ctx, query, schema); err != nil {
		return domain.WrapError(err, errcodes.PredictionNotStored, "failed to insert prediction")
	}

	return nil
}
