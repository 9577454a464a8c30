package meetings

import (
	"context"

	"github.com/agora-bot/agora/models"
	"github.com/agora-bot/agora/storage"
	"github.com/pkg/errors"
)

// Store is the meeting document as the scheduler, tracker and commands see it
type Store interface {
	Load(ctx context.Context) ([]models.Meeting, error)
	Save(ctx context.Context, meetings []models.Meeting) error
	Update(ctx context.Context, fn func(meetings *[]models.Meeting) error) error
}

// NewStore returns the meetings document on $backend
func NewStore(backend storage.Backend) Store {
	return storage.NewDocument[[]models.Meeting](backend, models.MeetingsDocument)
}

// errUnchanged aborts an Update without writing
var errUnchanged = errors.New("unchanged")

// update runs fn through store.Update and treats errUnchanged as success.
// It reports whether the document was written.
func update(ctx context.Context, store Store, fn func(meetings *[]models.Meeting) error) (bool, error) {
	err := store.Update(ctx, fn)
	if err == errUnchanged {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func indexByID(meetings []models.Meeting, id int) int {
	for idx := range meetings {
		if meetings[idx].ID == id {
			return idx
		}
	}
	return -1
}

func indexByMessageID(meetings []models.Meeting, messageID string) int {
	if messageID == "" {
		return -1
	}
	for idx := range meetings {
		if meetings[idx].MessageID == messageID {
			return idx
		}
	}
	return -1
}
