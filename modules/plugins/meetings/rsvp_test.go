package meetings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agora-bot/agora/emojis"
	"github.com/agora-bot/agora/models"
)

func react(messageID, userID, emoji string, added bool) ReactionEvent {
	return ReactionEvent{
		MessageID: messageID,
		ChannelID: "channel",
		UserID:    userID,
		Emoji:     emoji,
		Added:     added,
	}
}

func handle(t *testing.T, tracker *Tracker, event ReactionEvent) Outcome {
	t.Helper()
	outcome, err := tracker.Handle(context.Background(), event)
	if err != nil {
		t.Fatal(err)
	}
	return outcome
}

func assertDisjoint(t *testing.T, meeting models.Meeting) {
	t.Helper()
	for _, confirmed := range meeting.ConfirmedParticipants {
		if meeting.IsDeclined(confirmed) {
			t.Fatalf("%s is both confirmed and declined", confirmed)
		}
	}
}

func TestTrackerConfirmAndDecline(t *testing.T) {
	f := newFixture(t, testMeeting(1, testNow.Add(time.Hour)))
	tracker := f.Tracker()

	if got := handle(t, tracker, react("announcement-1", "alice", emojis.Confirm, true)); got != OutcomeConfirmed {
		t.Fatalf("expected confirmed, got %s", got)
	}
	meeting := f.Meeting(t, 1)
	if !meeting.IsConfirmed("alice") {
		t.Fatal("expected alice to be confirmed")
	}

	if got := handle(t, tracker, react("announcement-1", "alice", emojis.Decline, true)); got != OutcomeDeclined {
		t.Fatalf("expected declined, got %s", got)
	}
	meeting = f.Meeting(t, 1)
	if meeting.IsConfirmed("alice") || !meeting.IsDeclined("alice") {
		t.Fatalf("expected alice to move to declined, got %+v", meeting)
	}
	assertDisjoint(t, meeting)

	direct := f.Notifier.Direct()
	if len(direct) != 2 || direct[0].ChannelID != "alice" {
		t.Fatalf("expected two acknowledgements to alice, got %+v", direct)
	}
}

func TestTrackerRemoveConfirmDoesNotDecline(t *testing.T) {
	f := newFixture(t, testMeeting(1, testNow.Add(time.Hour)))
	tracker := f.Tracker()

	handle(t, tracker, react("announcement-1", "bob", emojis.Confirm, true))
	if got := handle(t, tracker, react("announcement-1", "bob", emojis.Confirm, false)); got != OutcomeWithdrawn {
		t.Fatalf("expected withdrawn, got %s", got)
	}

	meeting := f.Meeting(t, 1)
	if meeting.IsConfirmed("bob") || meeting.IsDeclined("bob") {
		t.Fatalf("expected bob in neither set, got %+v", meeting)
	}
	if len(f.Notifier.Direct()) != 1 {
		t.Error("expected no acknowledgement for a removed reaction")
	}
}

func TestTrackerRemoveOtherReactionKeepsConfirm(t *testing.T) {
	f := newFixture(t, testMeeting(1, testNow.Add(time.Hour)))
	tracker := f.Tracker()

	handle(t, tracker, react("announcement-1", "bob", emojis.Confirm, true))
	if got := handle(t, tracker, react("announcement-1", "bob", emojis.Decline, false)); got != OutcomeIgnored {
		t.Fatalf("expected ignored, got %s", got)
	}
	if got := f.Meeting(t, 1); !got.IsConfirmed("bob") {
		t.Error("expected bob to stay confirmed")
	}
}

func TestTrackerIgnores(t *testing.T) {
	for name, event := range map[string]ReactionEvent{
		"bot":             react("announcement-1", "bot", emojis.Confirm, true),
		"uninvited":       react("announcement-1", "mallory", emojis.Confirm, true),
		"unknown emoji":   react("announcement-1", "alice", "👍", true),
		"unknown message": react("somewhere-else", "alice", emojis.Confirm, true),
		"empty message":   react("", "alice", emojis.Confirm, true),
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, testMeeting(1, testNow.Add(time.Hour)))
			writes := f.Backend.Writes()

			if got := handle(t, f.Tracker(), event); got != OutcomeIgnored {
				t.Fatalf("expected ignored, got %s", got)
			}
			if f.Backend.Writes() != writes {
				t.Error("expected no write")
			}
			if len(f.Notifier.Direct()) != 0 {
				t.Error("expected no acknowledgement")
			}
		})
	}
}

func TestTrackerRepeatedConfirmIsIgnored(t *testing.T) {
	f := newFixture(t, testMeeting(1, testNow.Add(time.Hour)))
	tracker := f.Tracker()

	handle(t, tracker, react("announcement-1", "alice", emojis.Confirm, true))
	if got := handle(t, tracker, react("announcement-1", "alice", emojis.Confirm, true)); got != OutcomeIgnored {
		t.Fatalf("expected ignored, got %s", got)
	}
	if len(f.Meeting(t, 1).ConfirmedParticipants) != 1 {
		t.Error("expected alice to be confirmed once")
	}
}

func TestTrackerDirectMessageFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, testMeeting(1, testNow.Add(time.Hour)))
	f.Notifier.DirectErr = errors.New("cannot send messages to this user")

	if got := handle(t, f.Tracker(), react("announcement-1", "alice", emojis.Confirm, true)); got != OutcomeConfirmed {
		t.Fatalf("expected confirmed, got %s", got)
	}
	if got := f.Meeting(t, 1); !got.IsConfirmed("alice") {
		t.Error("expected the rsvp to be persisted")
	}
}

func TestTrackerSetsStayDisjoint(t *testing.T) {
	f := newFixture(t, testMeeting(1, testNow.Add(time.Hour)))
	tracker := f.Tracker()

	sequence := []ReactionEvent{
		react("announcement-1", "alice", emojis.Confirm, true),
		react("announcement-1", "alice", emojis.Decline, true),
		react("announcement-1", "bob", emojis.Decline, true),
		react("announcement-1", "alice", emojis.Confirm, false),
		react("announcement-1", "bob", emojis.Confirm, true),
		react("announcement-1", "alice", emojis.Confirm, true),
		react("announcement-1", "bob", emojis.Decline, false),
	}
	for _, event := range sequence {
		handle(t, tracker, event)
		assertDisjoint(t, f.Meeting(t, 1))
	}

	meeting := f.Meeting(t, 1)
	if !meeting.IsConfirmed("alice") || !meeting.IsConfirmed("bob") {
		t.Errorf("expected both confirmed, got %+v", meeting)
	}
}
