package meetings

import (
	"time"

	"github.com/agora-bot/agora/helpers"
	"github.com/agora-bot/agora/models"
	"github.com/bwmarrin/discordgo"
	humanize "github.com/dustin/go-humanize"
)

const (
	// DateLayout and TimeLayout are the accepted schedule input formats
	DateLayout = "2/1/2006"
	TimeLayout = "15:04"

	displayLayout = "02/01/2006 15:04"

	colorScheduled = 0x3498DB
	colorReminder  = 0xE67E22
	colorStarting  = 0x2ECC71

	// ListLimit is the maximum number of meetings shown by list
	ListLimit = 10
)

func formatWhen(t time.Time, location *time.Location) string {
	return t.In(location).Format(displayLayout)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func announcementMessage(meeting models.Meeting, location *time.Location) Message {
	embed := &discordgo.MessageEmbed{
		Title:     helpers.GetTextF("plugins.meetings.announcement.title", meeting.Title),
		Color:     colorScheduled,
		Timestamp: meeting.ScheduledAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  helpers.GetText("plugins.meetings.announcement.agenda"),
				Value: meeting.Agenda,
			},
			{
				Name: helpers.GetText("plugins.meetings.announcement.date"),
				Value: helpers.GetTextF("plugins.meetings.announcement.date-value",
					formatWhen(meeting.ScheduledAt, location), location.String()),
			},
			{
				Name:   helpers.GetText("plugins.meetings.announcement.organizer"),
				Value:  helpers.Mention(meeting.OrganizerID),
				Inline: true,
			},
			{
				Name:   helpers.GetTextF("plugins.meetings.announcement.invited", count(len(meeting.InvitedParticipants))),
				Value:  helpers.Mentions(meeting.InvitedParticipants),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: helpers.GetTextF("plugins.meetings.announcement.footer", meeting.ID),
		},
	}

	return Message{
		Content:        helpers.Mentions(meeting.InvitedParticipants),
		Embed:          embed,
		MentionUserIDs: meeting.InvitedParticipants,
	}
}

func reminderText(meeting models.Meeting, kind models.ReminderKind) string {
	return helpers.GetTextF("plugins.meetings.reminder."+kind.String(), meeting.Title)
}

func reminderMessage(meeting models.Meeting, kind models.ReminderKind, location *time.Location) Message {
	confirmed := helpers.GetTextF("plugins.meetings.reminder.confirmed-value",
		count(len(meeting.ConfirmedParticipants)), count(len(meeting.InvitedParticipants)))
	if len(meeting.ConfirmedParticipants) == 0 {
		confirmed = helpers.GetText("plugins.meetings.reminder.nobody-confirmed")
	}

	color := colorReminder
	if kind == models.ReminderStart {
		color = colorStarting
	}

	embed := &discordgo.MessageEmbed{
		Title:       helpers.GetText("plugins.meetings.reminder.title"),
		Description: reminderText(meeting, kind),
		Color:       color,
		Timestamp:   meeting.ScheduledAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  helpers.GetText("plugins.meetings.announcement.agenda"),
				Value: meeting.Agenda,
			},
			{
				Name:   helpers.GetText("plugins.meetings.reminder.confirmed"),
				Value:  confirmed,
				Inline: true,
			},
			{
				Name:   helpers.GetText("plugins.meetings.announcement.date"),
				Value:  formatWhen(meeting.ScheduledAt, location),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: helpers.GetTextF("plugins.meetings.reminder.footer", meeting.OrganizerName),
		},
	}

	return Message{
		Content:        helpers.Mentions(meeting.ConfirmedParticipants),
		Embed:          embed,
		MentionUserIDs: meeting.ConfirmedParticipants,
	}
}

func acknowledgementMessage(meeting models.Meeting, action models.RSVPAction, location *time.Location) Message {
	when := formatWhen(meeting.ScheduledAt, location)
	switch action {
	case models.RSVPConfirm:
		return Message{Content: helpers.GetTextF("plugins.meetings.dm.confirmed", meeting.Title, when)}
	case models.RSVPDecline:
		return Message{Content: helpers.GetTextF("plugins.meetings.dm.declined", meeting.Title, when)}
	}
	panic("unknown rsvp action " + action.String())
}

// listEmbed renders $meetings, which must already be sorted and limited.
// $total is the number of upcoming meetings before the limit was applied.
func listEmbed(meetings []models.Meeting, total int, now time.Time, location *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: helpers.GetText("plugins.meetings.list.title"),
		Color: colorScheduled,
	}

	if len(meetings) == 0 {
		embed.Description = helpers.GetText("plugins.meetings.list.empty")
		return embed
	}

	for _, meeting := range meetings {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: helpers.GetTextF("plugins.meetings.list.entry-name", meeting.ID, meeting.Title),
			Value: helpers.GetTextF("plugins.meetings.list.entry-value",
				formatWhen(meeting.ScheduledAt, location),
				helpers.TimeRemaining(meeting.ScheduledAt.Sub(now)),
				count(len(meeting.ConfirmedParticipants)),
				count(len(meeting.DeclinedParticipants)),
				count(len(meeting.InvitedParticipants)),
			),
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: helpers.GetTextF("plugins.meetings.list.footer", count(len(meetings)), count(total)),
	}
	return embed
}
