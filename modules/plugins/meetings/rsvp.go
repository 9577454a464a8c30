package meetings

import (
	"context"
	"time"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/emojis"
	"github.com/agora-bot/agora/metrics"
	"github.com/agora-bot/agora/models"
)

// ReactionEvent is a reaction added to or removed from a message
type ReactionEvent struct {
	MessageID string
	ChannelID string
	UserID    string
	Emoji     string
	Added     bool
}

type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeConfirmed
	OutcomeDeclined
	OutcomeWithdrawn
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeDeclined:
		return "declined"
	case OutcomeWithdrawn:
		return "withdrawn"
	}
	return "unknown"
}

// Tracker keeps the RSVP sets in sync with the reactions on announcements
type Tracker struct {
	Store     Store
	Notifier  Notifier
	BotUserID string
	Location  *time.Location
}

func (t *Tracker) location() *time.Location {
	if t.Location == nil {
		return time.UTC
	}
	return t.Location
}

func (t *Tracker) Handle(ctx context.Context, event ReactionEvent) (Outcome, error) {
	if event.UserID == "" || event.UserID == t.BotUserID {
		return OutcomeIgnored, nil
	}
	action, ok := emojis.ToAction(event.Emoji)
	if !ok {
		return OutcomeIgnored, nil
	}

	var meeting models.Meeting
	changed, err := update(ctx, t.Store, func(meetings *[]models.Meeting) error {
		idx := indexByMessageID(*meetings, event.MessageID)
		if idx < 0 {
			return errUnchanged
		}
		entry := &(*meetings)[idx]

		var changed bool
		if event.Added {
			changed = entry.Respond(event.UserID, action)
		} else {
			changed = entry.Withdraw(event.UserID, action)
		}
		if !changed {
			return errUnchanged
		}
		meeting = *entry
		return nil
	})
	if err != nil {
		return OutcomeIgnored, err
	}
	if !changed {
		return OutcomeIgnored, nil
	}

	metrics.RSVPUpdates.Add(1)
	cache.GetLogger().WithField("module", "meetings").WithField("meeting", meeting.ID).Infof(
		"rsvp %s by %s (added: %t)", action, event.UserID, event.Added)

	if !event.Added {
		return OutcomeWithdrawn, nil
	}

	err = t.Notifier.SendDirect(ctx, event.UserID, acknowledgementMessage(meeting, action, t.location()))
	if err != nil {
		cache.GetLogger().WithField("module", "meetings").WithField("meeting", meeting.ID).Warnf(
			"acknowledging rsvp to %s failed: %s", event.UserID, err.Error())
	}

	if action == models.RSVPConfirm {
		return OutcomeConfirmed, nil
	}
	return OutcomeDeclined, nil
}
