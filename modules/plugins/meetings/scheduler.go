package meetings

import (
	"context"
	"fmt"
	"time"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/helpers"
	"github.com/agora-bot/agora/metrics"
	"github.com/agora-bot/agora/models"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultSweepInterval is used when Scheduler.Interval is zero
const DefaultSweepInterval = time.Minute

// Scheduler sends meeting reminders and garbage collects expired meetings
type Scheduler struct {
	Store    Store
	Notifier Notifier
	Clock    clockwork.Clock
	Interval time.Duration
	Location *time.Location
}

func (s *Scheduler) log() *logrus.Entry {
	return cache.GetLogger().WithField("module", "meetings").WithField("worker", "sweep")
}

func (s *Scheduler) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Run waits for $ready, then sweeps every Interval until $ctx is done.
// The first sweep starts right away and sweeps never overlap.
func (s *Scheduler) Run(ctx context.Context, ready <-chan struct{}) error {
	select {
	case <-ready:
	case <-ctx.Done():
		return nil
	}

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	scheduler, err := gocron.NewScheduler(
		gocron.WithClock(s.Clock),
		gocron.WithLogger(gocronLogger{s.log()}),
	)
	if err != nil {
		return errors.Wrap(err, "creating sweep scheduler")
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			err := s.Sweep(ctx)
			if err != nil {
				s.log().Error("sweep failed: ", err.Error())
			}
		}),
		gocron.WithName("meetings-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		helpers.RelaxLog(scheduler.Shutdown())
		return errors.Wrap(err, "scheduling sweep")
	}

	s.log().Infof("sweeping meetings every %s", interval)
	scheduler.Start()

	<-ctx.Done()
	return scheduler.Shutdown()
}

// Sweep runs one reminder pass over all meetings and removes expired ones
func (s *Scheduler) Sweep(ctx context.Context) error {
	meetings, err := s.Store.Load(ctx)
	if err != nil {
		metrics.SweepErrors.Add(1)
		return errors.Wrap(err, "loading meetings")
	}

	now := s.Clock.Now()
	for _, meeting := range meetings {
		s.processMeeting(ctx, meeting, now)
	}

	err = s.expire(ctx, now)
	if err != nil {
		metrics.SweepErrors.Add(1)
		return errors.Wrap(err, "removing expired meetings")
	}

	metrics.Sweeps.Add(1)
	return nil
}

func (s *Scheduler) processMeeting(ctx context.Context, meeting models.Meeting, now time.Time) {
	defer helpers.RecoverWith(func(err error) {
		metrics.SweepErrors.Add(1)
	})

	// not announced yet, or the announcement was never recorded
	if meeting.MessageID == "" {
		return
	}

	for _, kind := range models.AllReminderKinds {
		if meeting.Reminders.Sent(kind) || !kind.IsDue(meeting.ScheduledAt, now) {
			continue
		}

		s.remind(ctx, meeting, kind)

		err := s.markSent(ctx, meeting.ID, kind)
		if err != nil {
			metrics.SweepErrors.Add(1)
			s.log().WithField("meeting", meeting.ID).Error("persisting reminder flag failed: ", err.Error())
			return
		}
		meeting.Reminders.Mark(kind)
	}
}

// remind delivers the reminder. Delivery errors are logged and not retried.
func (s *Scheduler) remind(ctx context.Context, meeting models.Meeting, kind models.ReminderKind) {
	_, err := s.Notifier.SendChannel(ctx, meeting.ChannelID, reminderMessage(meeting, kind, s.location()))
	if err != nil {
		s.log().WithField("meeting", meeting.ID).Warnf("sending %s reminder failed: %s", kind, err.Error())
		return
	}
	metrics.RemindersSent.Add(kind.String(), 1)
	s.log().WithField("meeting", meeting.ID).Infof("sent %s reminder", kind)
}

func (s *Scheduler) markSent(ctx context.Context, id int, kind models.ReminderKind) error {
	_, err := update(ctx, s.Store, func(meetings *[]models.Meeting) error {
		idx := indexByID(*meetings, id)
		if idx < 0 || (*meetings)[idx].Reminders.Sent(kind) {
			return errUnchanged
		}
		(*meetings)[idx].Reminders.Mark(kind)
		return nil
	})
	return err
}

func (s *Scheduler) expire(ctx context.Context, now time.Time) error {
	var expired []int
	_, err := update(ctx, s.Store, func(meetings *[]models.Meeting) error {
		kept := make([]models.Meeting, 0, len(*meetings))
		for _, meeting := range *meetings {
			if meeting.ExpiresAt().Before(now) {
				expired = append(expired, meeting.ID)
				continue
			}
			kept = append(kept, meeting)
		}
		if len(expired) == 0 {
			return errUnchanged
		}
		*meetings = kept
		return nil
	})
	if err != nil {
		return err
	}

	if len(expired) > 0 {
		metrics.MeetingsExpired.Add(int64(len(expired)))
		s.log().Infof("removed %d expired meetings: %v", len(expired), expired)
	}
	return nil
}

// gocronLogger routes gocron's logging into logrus
type gocronLogger struct {
	entry *logrus.Entry
}

func (l gocronLogger) Debug(msg string, args ...any) {
	l.entry.Debug(msg + formatArgs(args))
}

func (l gocronLogger) Info(msg string, args ...any) {
	l.entry.Info(msg + formatArgs(args))
}

func (l gocronLogger) Warn(msg string, args ...any) {
	l.entry.Warn(msg + formatArgs(args))
}

func (l gocronLogger) Error(msg string, args ...any) {
	l.entry.Error(msg + formatArgs(args))
}

func formatArgs(args []any) string {
	var formatted string
	for i := 0; i+1 < len(args); i += 2 {
		formatted += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	return formatted
}
