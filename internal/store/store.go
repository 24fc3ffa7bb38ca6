package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = eris.New("store: run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Kind   model.RunKind   `json:"kind,omitempty"`
	Status model.RunStatus `json:"status,omitempty"`
	Source string          `json:"source,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, kind model.RunKind, source string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary map[string]any) error
	FailRun(ctx context.Context, runID string, msg string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Audit trail
	SaveFixes(ctx context.Context, runID string, fixes []model.FixEntry) error
	SaveUnresolved(ctx context.Context, runID string, entries []model.UnresolvedEntry) error
	ListFixes(ctx context.Context, runID string) ([]model.FixEntry, error)
	ListUnresolved(ctx context.Context, runID string) ([]model.UnresolvedEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
