// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/service"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Browse *service.BrowseService
	Logger *slog.Logger
	// DefaultSort applies when a caller omits sort.
	DefaultSort models.SortMode
}
