package models

import (
	"time"
)

type Rest_Meeting struct {
	ID          int
	ChannelID   string
	GuildID     string
	OrganizerID string
	Title       string
	Agenda      string
	ScheduledAt time.Time
	CreatedAt   time.Time
	RSVP        Rest_Meeting_RSVP
	Reminders   ReminderFlags
}

type Rest_Meeting_RSVP struct {
	Invited   []string
	Confirmed []string
	Declined  []string
}

type Rest_Error struct {
	Error string
}

func NewRestMeeting(meeting Meeting) Rest_Meeting {
	return Rest_Meeting{
		ID:          meeting.ID,
		ChannelID:   meeting.ChannelID,
		GuildID:     meeting.GuildID,
		OrganizerID: meeting.OrganizerID,
		Title:       meeting.Title,
		Agenda:      meeting.Agenda,
		ScheduledAt: meeting.ScheduledAt,
		CreatedAt:   meeting.CreatedAt,
		RSVP: Rest_Meeting_RSVP{
			Invited:   nonNil(meeting.InvitedParticipants),
			Confirmed: nonNil(meeting.ConfirmedParticipants),
			Declined:  nonNil(meeting.DeclinedParticipants),
		},
		Reminders: meeting.Reminders,
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return make([]string, 0)
	}
	return ids
}
