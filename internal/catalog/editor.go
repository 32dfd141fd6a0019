package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/claude/recovery/internal/models"
)

// Editor applies exercise edits to the store and publishes the reloaded
// catalog through onChange, so running reports pick up the change without a
// restart.
type Editor struct {
	store    *Store
	onChange func(*Static)

	mu sync.Mutex
}

// NewEditor creates an Editor over store.
func NewEditor(store *Store, onChange func(*Static)) *Editor {
	return &Editor{store: store, onChange: onChange}
}

// UpsertExercise stores d and republishes the catalog. Definitions failing
// validation return an error wrapping ErrInvalidExercise.
func (e *Editor) UpsertExercise(ctx context.Context, d models.ExerciseDefinition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Upsert(ctx, d); err != nil {
		return err
	}
	c, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reloading catalog: %w", err)
	}
	e.onChange(c)
	return nil
}
