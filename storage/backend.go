package storage

import (
	"context"

	"github.com/agora-bot/agora/models"
	"github.com/pkg/errors"
)

// ErrNotFound is returned by a Backend when a document was never written
var ErrNotFound = errors.New("document not found")

// Backend persists raw document bodies by name.
// A Write always replaces the whole document.
type Backend interface {
	Read(ctx context.Context, name models.DocumentName) ([]byte, error)
	Write(ctx context.Context, name models.DocumentName, data []byte) error
	Close() error
}
