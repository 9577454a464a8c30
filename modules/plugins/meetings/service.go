package meetings

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/emojis"
	"github.com/agora-bot/agora/helpers"
	"github.com/agora-bot/agora/metrics"
	"github.com/agora-bot/agora/models"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

// Requester is the user invoking a command
type Requester struct {
	UserID    string
	Name      string
	RoleNames []string
}

type ScheduleRequest struct {
	Date         string
	Time         string
	Title        string
	Agenda       string
	Participants string
	Organizer    Requester
	GuildID      string
	ChannelID    string
}

// Service implements the schedule, list and cancel commands
type Service struct {
	Store    Store
	Notifier Notifier
	Clock    clockwork.Clock
	Location *time.Location

	// ElevatedRoles may cancel any meeting
	ElevatedRoles []string
	// OrganizerRoles may schedule meetings, everyone may when empty
	OrganizerRoles []string
}

func (s *Service) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// ParseDateTime parses DD/MM/YYYY and HH:MM in $location and returns the instant in UTC
func ParseDateTime(date, clock string, location *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation(
		DateLayout+" "+TimeLayout,
		strings.TrimSpace(date)+" "+strings.TrimSpace(clock),
		location,
	)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return parsed.UTC(), nil
}

func (s *Service) Schedule(ctx context.Context, request ScheduleRequest) (meeting models.Meeting, err error) {
	if len(s.OrganizerRoles) > 0 && !helpers.HasAnyRoleName(request.Organizer.RoleNames, s.OrganizerRoles) {
		return meeting, ErrScheduleDenied
	}

	title := strings.TrimSpace(request.Title)
	agenda := strings.TrimSpace(request.Agenda)
	if title == "" || agenda == "" {
		return meeting, ErrInvalidInput
	}

	scheduledAt, err := ParseDateTime(request.Date, request.Time, s.location())
	if err != nil {
		return meeting, err
	}
	now := s.Clock.Now()
	if !scheduledAt.After(now) {
		return meeting, ErrNotInFuture
	}

	participants := helpers.ParseMentions(request.Participants)
	if len(participants) == 0 {
		return meeting, ErrNoParticipants
	}

	meeting = models.Meeting{
		ChannelID:             request.ChannelID,
		GuildID:               request.GuildID,
		OrganizerID:           request.Organizer.UserID,
		OrganizerName:         request.Organizer.Name,
		ScheduledAt:           scheduledAt,
		Title:                 title,
		Agenda:                agenda,
		InvitedParticipants:   participants,
		ConfirmedParticipants: make([]string, 0),
		DeclinedParticipants:  make([]string, 0),
		CreatedAt:             now.UTC(),
	}

	err = s.Store.Update(ctx, func(meetings *[]models.Meeting) error {
		for _, existing := range *meetings {
			if existing.ID > meeting.ID {
				meeting.ID = existing.ID
			}
		}
		meeting.ID++
		*meetings = append(*meetings, meeting)
		return nil
	})
	if err != nil {
		return meeting, errors.Wrap(err, "persisting meeting")
	}

	messageID, err := s.Notifier.SendChannel(ctx, meeting.ChannelID, announcementMessage(meeting, s.location()))
	if err != nil {
		_, removeErr := s.remove(ctx, meeting.ID)
		helpers.RelaxLog(removeErr)
		return meeting, errors.Wrap(err, "posting announcement")
	}
	meeting.MessageID = messageID

	_, err = update(ctx, s.Store, func(meetings *[]models.Meeting) error {
		idx := indexByID(*meetings, meeting.ID)
		if idx < 0 {
			return errUnchanged
		}
		(*meetings)[idx].MessageID = messageID
		return nil
	})
	if err != nil {
		_, removeErr := s.remove(ctx, meeting.ID)
		helpers.RelaxLog(removeErr)
		helpers.RelaxLog(s.Notifier.DeleteMessage(ctx, meeting.ChannelID, messageID))
		return meeting, errors.Wrap(err, "recording announcement")
	}

	for _, emoji := range emojis.RSVP() {
		err = s.Notifier.AddReaction(ctx, meeting.ChannelID, messageID, emoji)
		if err != nil {
			cache.GetLogger().WithField("module", "meetings").WithField("meeting", meeting.ID).Warn(
				"adding reaction failed: ", err.Error())
		}
	}

	metrics.MeetingsScheduled.Add(1)
	cache.GetLogger().WithField("module", "meetings").Infof("scheduled meeting #%d %q for %s by %s",
		meeting.ID, meeting.Title, meeting.ScheduledAt.Format(time.RFC3339), meeting.OrganizerID)
	return meeting, nil
}

// Upcoming returns all meetings that have not started yet, soonest first
func (s *Service) Upcoming(ctx context.Context) ([]models.Meeting, error) {
	meetings, err := s.Store.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	upcoming := make([]models.Meeting, 0, len(meetings))
	for _, meeting := range meetings {
		if meeting.ScheduledAt.After(now) {
			upcoming = append(upcoming, meeting)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
	})
	return upcoming, nil
}

// List returns up to ListLimit upcoming meetings, soonest first
func (s *Service) List(ctx context.Context) ([]models.Meeting, error) {
	upcoming, err := s.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	if len(upcoming) > ListLimit {
		upcoming = upcoming[:ListLimit]
	}
	return upcoming, nil
}

func (s *Service) Get(ctx context.Context, id int) (models.Meeting, error) {
	meetings, err := s.Store.Load(ctx)
	if err != nil {
		return models.Meeting{}, err
	}
	idx := indexByID(meetings, id)
	if idx < 0 {
		return models.Meeting{}, ErrNotFound
	}
	return meetings[idx], nil
}

func (s *Service) mayCancel(meeting models.Meeting, requester Requester) bool {
	if meeting.OrganizerID == requester.UserID {
		return true
	}
	return helpers.HasAnyRoleName(requester.RoleNames, s.ElevatedRoles)
}

// Cancel removes meeting $id if $requester organizes it or holds an elevated role
func (s *Service) Cancel(ctx context.Context, id int, requester Requester) (cancelled models.Meeting, err error) {
	err = s.Store.Update(ctx, func(meetings *[]models.Meeting) error {
		idx := indexByID(*meetings, id)
		if idx < 0 {
			return ErrNotFound
		}
		cancelled = (*meetings)[idx]
		if !s.mayCancel(cancelled, requester) {
			return ErrForbidden
		}
		*meetings = append((*meetings)[:idx], (*meetings)[idx+1:]...)
		return nil
	})
	if err != nil {
		return cancelled, err
	}

	metrics.MeetingsCancelled.Add(1)
	cache.GetLogger().WithField("module", "meetings").Infof("meeting #%d cancelled by %s",
		cancelled.ID, requester.UserID)
	return cancelled, nil
}

func (s *Service) remove(ctx context.Context, id int) (bool, error) {
	return update(ctx, s.Store, func(meetings *[]models.Meeting) error {
		idx := indexByID(*meetings, id)
		if idx < 0 {
			return errUnchanged
		}
		*meetings = append((*meetings)[:idx], (*meetings)[idx+1:]...)
		return nil
	})
}
