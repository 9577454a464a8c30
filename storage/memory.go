package storage

import (
	"context"
	"sync"

	"github.com/agora-bot/agora/models"
)

// MemoryBackend keeps documents in process memory only
type MemoryBackend struct {
	sync.RWMutex
	documents map[models.DocumentName][]byte
	writes    int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{documents: make(map[models.DocumentName][]byte)}
}

func (m *MemoryBackend) Read(ctx context.Context, name models.DocumentName) ([]byte, error) {
	m.RLock()
	defer m.RUnlock()

	data, ok := m.documents[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryBackend) Write(ctx context.Context, name models.DocumentName, data []byte) error {
	m.Lock()
	defer m.Unlock()

	m.documents[name] = append([]byte(nil), data...)
	m.writes++
	return nil
}

// Writes returns how many times any document was written
func (m *MemoryBackend) Writes() int {
	m.RLock()
	defer m.RUnlock()

	return m.writes
}

func (m *MemoryBackend) Close() error {
	return nil
}
