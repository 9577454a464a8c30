package meetings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/agora-bot/agora/models"
	"github.com/agora-bot/agora/storage"
	"github.com/jonboulle/clockwork"
)

var testNow = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

type sentMessage struct {
	ChannelID string
	Message   Message
}

type reaction struct {
	ChannelID string
	MessageID string
	Emoji     string
}

type fakeNotifier struct {
	sync.Mutex

	channel   []sentMessage
	direct    []sentMessage
	reactions []reaction
	deleted   []string

	ChannelErr  error
	DirectErr   error
	ReactionErr error
	// PanicChannel makes SendChannel panic for that channel
	PanicChannel string
}

func (f *fakeNotifier) SendChannel(ctx context.Context, channelID string, message Message) (string, error) {
	if channelID != "" && channelID == f.PanicChannel {
		panic("send to " + channelID)
	}

	f.Lock()
	defer f.Unlock()

	if f.ChannelErr != nil {
		return "", f.ChannelErr
	}
	f.channel = append(f.channel, sentMessage{channelID, message})
	return fmt.Sprintf("message-%d", len(f.channel)), nil
}

func (f *fakeNotifier) SendDirect(ctx context.Context, userID string, message Message) error {
	f.Lock()
	defer f.Unlock()

	if f.DirectErr != nil {
		return f.DirectErr
	}
	f.direct = append(f.direct, sentMessage{userID, message})
	return nil
}

func (f *fakeNotifier) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	f.Lock()
	defer f.Unlock()

	if f.ReactionErr != nil {
		return f.ReactionErr
	}
	f.reactions = append(f.reactions, reaction{channelID, messageID, emoji})
	return nil
}

func (f *fakeNotifier) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.Lock()
	defer f.Unlock()

	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeNotifier) Channel() []sentMessage {
	f.Lock()
	defer f.Unlock()
	return append([]sentMessage(nil), f.channel...)
}

func (f *fakeNotifier) Direct() []sentMessage {
	f.Lock()
	defer f.Unlock()
	return append([]sentMessage(nil), f.direct...)
}

func (f *fakeNotifier) Reactions() []reaction {
	f.Lock()
	defer f.Unlock()
	return append([]reaction(nil), f.reactions...)
}

func (f *fakeNotifier) Deleted() []string {
	f.Lock()
	defer f.Unlock()
	return append([]string(nil), f.deleted...)
}

// failingStore rejects every update for which Reject returns true
type failingStore struct {
	Store

	Reject func(before, after []models.Meeting) bool
}

var errStoreFull = errors.New("no space left on device")

func (s *failingStore) Update(ctx context.Context, fn func(meetings *[]models.Meeting) error) error {
	return s.Store.Update(ctx, func(meetings *[]models.Meeting) error {
		before := append([]models.Meeting(nil), *meetings...)
		err := fn(meetings)
		if err != nil {
			return err
		}
		if s.Reject(before, *meetings) {
			return errStoreFull
		}
		return nil
	})
}

func findMeeting(meetings []models.Meeting, id int) (models.Meeting, bool) {
	idx := indexByID(meetings, id)
	if idx < 0 {
		return models.Meeting{}, false
	}
	return meetings[idx], true
}

type fixture struct {
	Backend  *storage.MemoryBackend
	Store    Store
	Notifier *fakeNotifier
	Clock    *clockwork.FakeClock
}

func newFixture(t *testing.T, meetings ...models.Meeting) *fixture {
	t.Helper()

	f := &fixture{
		Backend:  storage.NewMemoryBackend(),
		Notifier: &fakeNotifier{},
		Clock:    clockwork.NewFakeClockAt(testNow),
	}
	f.Store = NewStore(f.Backend)
	if len(meetings) > 0 {
		if err := f.Store.Save(context.Background(), meetings); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func (f *fixture) Service() *Service {
	return &Service{
		Store:         f.Store,
		Notifier:      f.Notifier,
		Clock:         f.Clock,
		ElevatedRoles: []string{"Staff"},
	}
}

func (f *fixture) Scheduler() *Scheduler {
	return &Scheduler{
		Store:    f.Store,
		Notifier: f.Notifier,
		Clock:    f.Clock,
	}
}

func (f *fixture) Tracker() *Tracker {
	return &Tracker{
		Store:     f.Store,
		Notifier:  f.Notifier,
		BotUserID: "bot",
	}
}

func (f *fixture) Load(t *testing.T) []models.Meeting {
	t.Helper()

	meetings, err := f.Store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return meetings
}

func (f *fixture) Meeting(t *testing.T, id int) models.Meeting {
	t.Helper()

	meetings := f.Load(t)
	idx := indexByID(meetings, id)
	if idx < 0 {
		t.Fatalf("meeting #%d not found", id)
	}
	return meetings[idx]
}

func testMeeting(id int, scheduledAt time.Time) models.Meeting {
	return models.Meeting{
		ID:                    id,
		MessageID:             fmt.Sprintf("announcement-%d", id),
		ChannelID:             "channel",
		GuildID:               "guild",
		OrganizerID:           "organizer",
		OrganizerName:         "Organizer",
		ScheduledAt:           scheduledAt,
		Title:                 fmt.Sprintf("Meeting %d", id),
		Agenda:                "Agenda",
		InvitedParticipants:   []string{"alice", "bob"},
		ConfirmedParticipants: []string{},
		DeclinedParticipants:  []string{},
		CreatedAt:             testNow.Add(-time.Hour),
	}
}
