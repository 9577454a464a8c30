package storage

import (
	"bytes"
	"context"
	"sync"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Document is a typed JSON document stored as a whole on a Backend.
// Update serializes read-modify-write cycles of this process; there is
// no coordination with other processes using the same backend.
type Document[T any] struct {
	sync.Mutex

	backend Backend
	name    models.DocumentName
}

func NewDocument[T any](backend Backend, name models.DocumentName) *Document[T] {
	return &Document[T]{backend: backend, name: name}
}

func (d *Document[T]) Name() models.DocumentName {
	return d.name
}

// Load returns the stored value. A missing, empty or unreadable JSON body
// yields the zero value; the latter is logged since the next Save overwrites it.
func (d *Document[T]) Load(ctx context.Context) (value T, err error) {
	data, err := d.backend.Read(ctx, d.name)
	if err == ErrNotFound {
		return value, nil
	}
	if err != nil {
		return value, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return value, nil
	}

	err = json.Unmarshal(data, &value)
	if err != nil {
		cache.GetLogger().WithField("module", "storage").Warnf(
			"document %s is corrupt, starting over: %s", d.name, err.Error())
		var zero T
		return zero, nil
	}
	return value, nil
}

func (d *Document[T]) Save(ctx context.Context, value T) error {
	d.Lock()
	defer d.Unlock()

	return d.save(ctx, value)
}

func (d *Document[T]) save(ctx context.Context, value T) error {
	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "encoding document %s", d.name)
	}
	return d.backend.Write(ctx, d.name, append(data, '\n'))
}

// Update loads the document, applies fn and saves the result.
// Nothing is written when fn returns an error.
func (d *Document[T]) Update(ctx context.Context, fn func(value *T) error) error {
	d.Lock()
	defer d.Unlock()

	value, err := d.Load(ctx)
	if err != nil {
		return err
	}
	err = fn(&value)
	if err != nil {
		return err
	}
	return d.save(ctx, value)
}
