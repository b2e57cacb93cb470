package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
)

var ErrNotFound = fmt.Errorf("document %w", apperr.ErrNotFound)

// Sink persists rendered documents by name.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// CheckName rejects names that are empty, hidden or reach outside a flat
// namespace. Callers report such names as not found.
func CheckName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return nil
}
