package mcp

import (
	"context"
	"time"

	"github.com/claude/recovery/internal/analysis"
)

// DataSource abstracts where reports come from. Both *analysis.Service
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Report(ctx context.Context, ref time.Time) (analysis.Report, error)
}

// Compile-time check: *analysis.Service satisfies DataSource.
var _ DataSource = (*analysis.Service)(nil)

// locator is implemented by sources that know the engine time zone.
type locator interface {
	Location() *time.Location
}
