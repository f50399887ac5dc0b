package trainer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/enhancekit/enhancekit/internal/model"
)

// SQLiteStore persists trainer state in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS samples (
		id               TEXT PRIMARY KEY,
		brightness       REAL NOT NULL,
		contrast         REAL NOT NULL,
		sharpness        REAL NOT NULL,
		noise_level      REAL NOT NULL,
		sharpen          REAL NOT NULL,
		param_contrast   REAL NOT NULL,
		param_brightness REAL NOT NULL,
		saturation       REAL NOT NULL,
		denoise          INTEGER NOT NULL,
		scale            INTEGER NOT NULL,
		rating           INTEGER NOT NULL,
		flags            TEXT,
		created_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_samples_created ON samples(created_at);
	CREATE INDEX IF NOT EXISTS idx_samples_rating ON samples(rating);

	CREATE TABLE IF NOT EXISTS model_state (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		version TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load rebuilds the state from the samples and model_state tables.
// Returns nil when no state has been saved yet.
func (s *SQLiteStore) Load(ctx context.Context) (*State, error) {
	state := &State{}

	err := s.db.QueryRowContext(ctx, `SELECT version FROM model_state WHERE id = 1`).Scan(&state.Version)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, brightness, contrast, sharpness, noise_level,
		       sharpen, param_contrast, param_brightness, saturation, denoise, scale,
		       rating, flags, created_at
		FROM samples ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		state.Samples = append(state.Samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if state.Version == "" && len(state.Samples) == 0 {
		return nil, nil
	}
	return state, nil
}

// Save replaces all persisted rows with the snapshot in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, state *State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM samples`); err != nil {
		return fmt.Errorf("clear samples: %w", err)
	}
	for _, sample := range state.Samples {
		var flagsJSON *string
		if sample.Flags != (model.FeedbackFlags{}) {
			b, _ := json.Marshal(sample.Flags)
			str := string(b)
			flagsJSON = &str
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO samples (id, brightness, contrast, sharpness, noise_level,
			                     sharpen, param_contrast, param_brightness, saturation, denoise, scale,
			                     rating, flags, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sample.ID,
			sample.Characteristics.Brightness, sample.Characteristics.Contrast,
			sample.Characteristics.Sharpness, sample.Characteristics.NoiseLevel,
			sample.Params.Sharpen, sample.Params.Contrast, sample.Params.Brightness,
			sample.Params.Saturation, boolToInt(sample.Params.Denoise), sample.Params.Scale,
			sample.Rating, flagsJSON, sample.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO model_state (id, version) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version`, state.Version)
	if err != nil {
		return fmt.Errorf("save version: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSample(row scanner) (model.Sample, error) {
	var sample model.Sample
	var denoise int
	var flagsJSON sql.NullString
	var createdAt string

	err := row.Scan(
		&sample.ID,
		&sample.Characteristics.Brightness, &sample.Characteristics.Contrast,
		&sample.Characteristics.Sharpness, &sample.Characteristics.NoiseLevel,
		&sample.Params.Sharpen, &sample.Params.Contrast, &sample.Params.Brightness,
		&sample.Params.Saturation, &denoise, &sample.Params.Scale,
		&sample.Rating, &flagsJSON, &createdAt,
	)
	if err != nil {
		return sample, err
	}

	sample.Params.Denoise = denoise != 0
	sample.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if flagsJSON.Valid {
		json.Unmarshal([]byte(flagsJSON.String), &sample.Flags)
	}
	return sample, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
