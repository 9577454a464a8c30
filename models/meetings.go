package models

import (
	"fmt"
	"time"
)

// Meeting is one scheduled session with its RSVP and reminder state
type Meeting struct {
	ID                    int           `json:"id"`
	MessageID             string        `json:"message_id"`
	ChannelID             string        `json:"channel_id"`
	GuildID               string        `json:"guild_id"`
	OrganizerID           string        `json:"organizer_id"`
	OrganizerName         string        `json:"organizer_name"`
	ScheduledAt           time.Time     `json:"scheduled_at"`
	Title                 string        `json:"title"`
	Agenda                string        `json:"agenda"`
	InvitedParticipants   []string      `json:"invited_participants"`
	ConfirmedParticipants []string      `json:"confirmed_participants"`
	DeclinedParticipants  []string      `json:"declined_participants"`
	Reminders             ReminderFlags `json:"reminder_flags"`
	CreatedAt             time.Time     `json:"created_at"`
}

// ReminderFlags records which notifications were already sent.
// Each flag only ever goes from false to true.
type ReminderFlags struct {
	Sent30Min bool `json:"sent_30min"`
	Sent5Min  bool `json:"sent_5min"`
	SentStart bool `json:"sent_start"`
}

type ReminderKind int

const (
	Reminder30Min ReminderKind = iota
	Reminder5Min
	ReminderStart
)

// AllReminderKinds in the order a sweep evaluates them
var AllReminderKinds = []ReminderKind{Reminder30Min, Reminder5Min, ReminderStart}

func (k ReminderKind) String() string {
	switch k {
	case Reminder30Min:
		return "30min"
	case Reminder5Min:
		return "5min"
	case ReminderStart:
		return "start"
	}
	panic(fmt.Sprintf("unknown reminder kind %d", int(k)))
}

// Trigger returns the first instant the reminder is due
func (k ReminderKind) Trigger(scheduledAt time.Time) time.Time {
	switch k {
	case Reminder30Min:
		return scheduledAt.Add(-30 * time.Minute)
	case Reminder5Min:
		return scheduledAt.Add(-5 * time.Minute)
	case ReminderStart:
		return scheduledAt
	}
	panic(fmt.Sprintf("unknown reminder kind %d", int(k)))
}

// Deadline returns the first instant the reminder is no longer due
func (k ReminderKind) Deadline(scheduledAt time.Time) time.Time {
	switch k {
	case Reminder30Min:
		return scheduledAt.Add(-5 * time.Minute)
	case Reminder5Min:
		return scheduledAt
	case ReminderStart:
		return scheduledAt.Add(5 * time.Minute)
	}
	panic(fmt.Sprintf("unknown reminder kind %d", int(k)))
}

// IsDue reports whether now lies within [trigger, deadline)
func (k ReminderKind) IsDue(scheduledAt, now time.Time) bool {
	return !now.Before(k.Trigger(scheduledAt)) && now.Before(k.Deadline(scheduledAt))
}

func (f ReminderFlags) Sent(k ReminderKind) bool {
	switch k {
	case Reminder30Min:
		return f.Sent30Min
	case Reminder5Min:
		return f.Sent5Min
	case ReminderStart:
		return f.SentStart
	}
	panic(fmt.Sprintf("unknown reminder kind %d", int(k)))
}

// Mark sets the flag for k. There is no way to clear a flag.
func (f *ReminderFlags) Mark(k ReminderKind) {
	switch k {
	case Reminder30Min:
		f.Sent30Min = true
	case Reminder5Min:
		f.Sent5Min = true
	case ReminderStart:
		f.SentStart = true
	default:
		panic(fmt.Sprintf("unknown reminder kind %d", int(k)))
	}
}

type RSVPAction int

const (
	RSVPConfirm RSVPAction = iota
	RSVPDecline
)

func (a RSVPAction) String() string {
	switch a {
	case RSVPConfirm:
		return "confirm"
	case RSVPDecline:
		return "decline"
	}
	panic(fmt.Sprintf("unknown rsvp action %d", int(a)))
}

// ExpiresAt is the instant after which the meeting is garbage collected
func (m *Meeting) ExpiresAt() time.Time {
	return m.ScheduledAt.Add(24 * time.Hour)
}

func (m *Meeting) IsInvited(userID string) bool {
	return containsID(m.InvitedParticipants, userID)
}

func (m *Meeting) IsConfirmed(userID string) bool {
	return containsID(m.ConfirmedParticipants, userID)
}

func (m *Meeting) IsDeclined(userID string) bool {
	return containsID(m.DeclinedParticipants, userID)
}

// Respond applies an RSVP and reports whether anything changed.
// Uninvited users are ignored.
func (m *Meeting) Respond(userID string, action RSVPAction) (changed bool) {
	if !m.IsInvited(userID) {
		return false
	}
	switch action {
	case RSVPConfirm:
		m.DeclinedParticipants, changed = removeID(m.DeclinedParticipants, userID)
		if !m.IsConfirmed(userID) {
			m.ConfirmedParticipants = append(m.ConfirmedParticipants, userID)
			changed = true
		}
	case RSVPDecline:
		m.ConfirmedParticipants, changed = removeID(m.ConfirmedParticipants, userID)
		if !m.IsDeclined(userID) {
			m.DeclinedParticipants = append(m.DeclinedParticipants, userID)
			changed = true
		}
	default:
		panic(fmt.Sprintf("unknown rsvp action %d", int(action)))
	}
	return changed
}

// Withdraw removes userID from the set belonging to action only
func (m *Meeting) Withdraw(userID string, action RSVPAction) (changed bool) {
	switch action {
	case RSVPConfirm:
		m.ConfirmedParticipants, changed = removeID(m.ConfirmedParticipants, userID)
	case RSVPDecline:
		m.DeclinedParticipants, changed = removeID(m.DeclinedParticipants, userID)
	default:
		panic(fmt.Sprintf("unknown rsvp action %d", int(action)))
	}
	return changed
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) ([]string, bool) {
	without := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate == id {
			continue
		}
		without = append(without, candidate)
	}
	return without, len(without) != len(ids)
}
