// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/davidkellner/molscope/internal/pipeline"
	"github.com/davidkellner/molscope/internal/sources"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Sources  *sources.Set
	Pipeline *pipeline.Pipeline
	Logger   *slog.Logger
}
