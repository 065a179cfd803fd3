package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every entity-specific not-found error, so callers
// may test for either.
var ErrNotFound = errors.New("not found")

var (
	ErrProjectNotFound  = fmt.Errorf("project %w", ErrNotFound)
	ErrPrinterNotFound  = fmt.Errorf("printer %w", ErrNotFound)
	ErrFilamentNotFound = fmt.Errorf("filament %w", ErrNotFound)

	// ErrInsufficientStock is returned by the reject stock policy when a usage
	// asks for more than is left.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStockConflict means the filament changed between read and write.
	ErrStockConflict = errors.New("stock changed concurrently")
	// ErrInvalidTransition means the project is not in a status the
	// requested change can start from.
	ErrInvalidTransition = errors.New("invalid status transition")
)
