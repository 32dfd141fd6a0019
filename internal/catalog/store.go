package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/recovery/internal/models"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS exercises (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL UNIQUE COLLATE NOCASE,
	category          TEXT NOT NULL,
	primary_muscles   TEXT NOT NULL,
	secondary_muscles TEXT NOT NULL DEFAULT ''
)`

const upsertSQL = `INSERT INTO exercises (id, name, category, primary_muscles, secondary_muscles)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		category = excluded.category,
		primary_muscles = excluded.primary_muscles,
		secondary_muscles = excluded.secondary_muscles`

// Store persists the exercise catalog in SQLite. Muscles are stored as
// comma-separated tags.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog db: %w", err)
	}
	return NewStore(db), nil
}

// NewStore wraps an existing handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the exercises table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating exercises table: %w", err)
	}
	return nil
}

// Seed inserts defs when the catalog is empty and reports whether it did.
func (s *Store) Seed(ctx context.Context, defs []models.ExerciseDefinition) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&count); err != nil {
		return false, fmt.Errorf("counting exercises: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning seed: %w", err)
	}
	defer tx.Rollback()

	for _, d := range defs {
		if err := validate(d); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx, upsertSQL, upsertArgs(d)...); err != nil {
			return false, fmt.Errorf("seeding %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing seed: %w", err)
	}
	return true, nil
}

// Upsert inserts or replaces one exercise keyed by ID.
func (s *Store) Upsert(ctx context.Context, d models.ExerciseDefinition) error {
	if err := validate(d); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertSQL, upsertArgs(d)...); err != nil {
		return fmt.Errorf("upserting %s: %w", d.ID, err)
	}
	return nil
}

// List returns every exercise ordered by name. Unknown muscle tags are dropped.
func (s *Store) List(ctx context.Context) ([]models.ExerciseDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, primary_muscles, secondary_muscles FROM exercises ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var out []models.ExerciseDefinition
	for rows.Next() {
		var d models.ExerciseDefinition
		var category, primary, secondary string
		if err := rows.Scan(&d.ID, &d.Name, &category, &primary, &secondary); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		d.Category = models.ExerciseCategory(category)
		d.PrimaryMuscles, _ = models.ParseMuscleList(primary)
		d.SecondaryMuscles, _ = models.ParseMuscleList(secondary)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Load reads the whole catalog into memory.
func (s *Store) Load(ctx context.Context) (*Static, error) {
	defs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewStatic(defs), nil
}

func upsertArgs(d models.ExerciseDefinition) []any {
	return []any{d.ID, d.Name, string(d.Category), models.JoinMuscles(d.PrimaryMuscles), models.JoinMuscles(d.SecondaryMuscles)}
}

// ErrInvalidExercise marks definitions rejected before reaching the database.
var ErrInvalidExercise = errors.New("invalid exercise")

func validate(d models.ExerciseDefinition) error {
	switch {
	case d.ID == "":
		return fmt.Errorf("%w: exercise %q: id is required", ErrInvalidExercise, d.Name)
	case d.Name == "":
		return fmt.Errorf("%w: exercise %s: name is required", ErrInvalidExercise, d.ID)
	case !d.Category.Valid():
		return fmt.Errorf("%w: exercise %s: unknown category %q", ErrInvalidExercise, d.ID, d.Category)
	case len(d.PrimaryMuscles) == 0:
		return fmt.Errorf("%w: exercise %s: at least one primary muscle is required", ErrInvalidExercise, d.ID)
	}
	for _, m := range append(append([]models.MuscleGroup(nil), d.PrimaryMuscles...), d.SecondaryMuscles...) {
		if !m.Valid() {
			return fmt.Errorf("%w: exercise %s: unknown muscle %q", ErrInvalidExercise, d.ID, m)
		}
	}
	return nil
}

// Prepare creates the table, seeds Defaults into an empty catalog and
// returns an in-memory snapshot.
func (s *Store) Prepare(ctx context.Context) (*Static, error) {
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	if _, err := s.Seed(ctx, Defaults()); err != nil {
		return nil, err
	}
	return s.Load(ctx)
}

// Bootstrap opens the catalog at path, prepares it and closes it again.
func Bootstrap(ctx context.Context, path string) (*Static, error) {
	store, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Prepare(ctx)
}
