package meetings

import (
	"context"
	"sync"
	"time"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/helpers"
	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const eventTimeout = 15 * time.Second

// Options configures the meetings handler before the session connects
type Options struct {
	Store          Store
	Notifier       Notifier
	Clock          clockwork.Clock
	Location       *time.Location
	ElevatedRoles  []string
	OrganizerRoles []string
	SweepInterval  time.Duration
}

// Handler is the discord side of meetings: the /meeting command and the RSVP reactions
type Handler struct {
	Service   *Service
	Scheduler *Scheduler
	Tracker   *Tracker

	ready     chan struct{}
	readyOnce sync.Once
}

func (h *Handler) Configure(options Options) {
	clock := options.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	location := options.Location
	if location == nil {
		location = time.UTC
	}

	h.Service = &Service{
		Store:          options.Store,
		Notifier:       options.Notifier,
		Clock:          clock,
		Location:       location,
		ElevatedRoles:  options.ElevatedRoles,
		OrganizerRoles: options.OrganizerRoles,
	}
	h.Scheduler = &Scheduler{
		Store:    options.Store,
		Notifier: options.Notifier,
		Clock:    clock,
		Interval: options.SweepInterval,
		Location: location,
	}
	h.Tracker = &Tracker{
		Store:    options.Store,
		Notifier: options.Notifier,
		Location: location,
	}
	h.ready = make(chan struct{})
}

func (h *Handler) log() *logrus.Entry {
	return cache.GetLogger().WithField("module", "meetings")
}

func (h *Handler) Commands() []*discordgo.ApplicationCommand {
	dmPermission := false
	minID := float64(1)

	return []*discordgo.ApplicationCommand{
		{
			Name:         "meeting",
			Description:  "Schedule and manage meetings",
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "schedule",
					Description: "Schedule a new meeting",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "date", Description: "Date as DD/MM/YYYY", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "time", Description: "Time as HH:MM", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "title", Description: "Title of the meeting", Required: true, MaxLength: 256},
						{Type: discordgo.ApplicationCommandOptionString, Name: "agenda", Description: "What the meeting is about", Required: true, MaxLength: 1024},
						{Type: discordgo.ApplicationCommandOptionString, Name: "participants", Description: "Mention everyone who is invited", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the upcoming meetings",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel a meeting",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Meeting number", Required: true, MinValue: &minID},
					},
				},
			},
		},
	}
}

// Init marks the handler ready, which starts the scheduler.
// Only the first call has an effect.
func (h *Handler) Init(session *discordgo.Session) {
	h.readyOnce.Do(func() {
		if session.State != nil && session.State.User != nil {
			h.Tracker.BotUserID = session.State.User.ID
		}
		close(h.ready)
		h.log().Info("meetings ready")
	})
}

func (h *Handler) Uninit(session *discordgo.Session) {
	h.log().Info("meetings stopped handling events")
}

func (h *Handler) isReady() bool {
	if h.ready == nil {
		return false
	}
	select {
	case <-h.ready:
		return true
	default:
		return false
	}
}

// RunScheduler blocks until $ctx is done and sweeps meetings once the gateway is ready
func (h *Handler) RunScheduler(ctx context.Context) error {
	return h.Scheduler.Run(ctx, h.ready)
}

func (h *Handler) Action(command string, interaction *discordgo.InteractionCreate, session *discordgo.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	subcommand, options := helpers.CommandOptions(interaction.ApplicationCommandData())

	err := helpers.DeferResponse(session, interaction, subcommand != "list")
	if err != nil {
		helpers.RelaxLog(errors.Wrap(err, "deferring meeting command"))
		return
	}

	var content string
	var embed *discordgo.MessageEmbed

	switch subcommand {
	case "schedule":
		content, err = h.schedule(ctx, scheduleRequest(interaction, options, session.State))
	case "list":
		embed, err = h.list(ctx)
	case "cancel":
		var id int64
		if option, ok := options["id"]; ok {
			id = option.IntValue()
		}
		content, err = h.cancel(ctx, int(id), requester(interaction, session.State))
	default:
		content = helpers.GetText("bot.errors.unknown-command")
	}
	if err != nil {
		content = errorText(err, options)
		embed = nil
	}

	helpers.RelaxLog(helpers.EditResponse(session, interaction, content, embed))
}

func (h *Handler) schedule(ctx context.Context, request ScheduleRequest) (string, error) {
	meeting, err := h.Service.Schedule(ctx, request)
	if err != nil {
		return "", err
	}
	return helpers.GetTextF("plugins.meetings.schedule.success",
		meeting.ID, meeting.Title, formatWhen(meeting.ScheduledAt, h.Service.location())), nil
}

func (h *Handler) list(ctx context.Context) (*discordgo.MessageEmbed, error) {
	upcoming, err := h.Service.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	shown := upcoming
	if len(shown) > ListLimit {
		shown = shown[:ListLimit]
	}
	return listEmbed(shown, len(upcoming), h.Service.Clock.Now(), h.Service.location()), nil
}

func (h *Handler) cancel(ctx context.Context, id int, requester Requester) (string, error) {
	meeting, err := h.Service.Cancel(ctx, id, requester)
	if err != nil {
		return "", err
	}
	return helpers.GetTextF("plugins.meetings.cancel.success", meeting.ID, meeting.Title), nil
}

func (h *Handler) OnReactionAdd(reaction *discordgo.MessageReactionAdd, session *discordgo.Session) {
	if !h.isReady() {
		return
	}
	h.handleReaction(ReactionEvent{
		MessageID: reaction.MessageID,
		ChannelID: reaction.ChannelID,
		UserID:    reaction.UserID,
		Emoji:     reaction.Emoji.Name,
		Added:     true,
	})
}

func (h *Handler) OnReactionRemove(reaction *discordgo.MessageReactionRemove, session *discordgo.Session) {
	if !h.isReady() {
		return
	}
	h.handleReaction(ReactionEvent{
		MessageID: reaction.MessageID,
		ChannelID: reaction.ChannelID,
		UserID:    reaction.UserID,
		Emoji:     reaction.Emoji.Name,
		Added:     false,
	})
}

func (h *Handler) handleReaction(event ReactionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	outcome, err := h.Tracker.Handle(ctx, event)
	if err != nil {
		helpers.RelaxLog(errors.Wrapf(err, "handling reaction on %s", event.MessageID))
		return
	}
	if outcome != OutcomeIgnored {
		h.log().Debugf("reaction %s by %s on %s: %s", event.Emoji, event.UserID, event.MessageID, outcome)
	}
}

func requester(interaction *discordgo.InteractionCreate, state *discordgo.State) Requester {
	requester := Requester{Name: helpers.InteractionUserName(interaction)}
	if user := helpers.InteractionUser(interaction); user != nil {
		requester.UserID = user.ID
	}
	requester.RoleNames = helpers.MemberRoleNames(state, interaction.GuildID, interaction.Member)
	return requester
}

func scheduleRequest(
	interaction *discordgo.InteractionCreate,
	options map[string]*discordgo.ApplicationCommandInteractionDataOption,
	state *discordgo.State,
) ScheduleRequest {
	value := func(name string) string {
		if option, ok := options[name]; ok {
			return option.StringValue()
		}
		return ""
	}

	return ScheduleRequest{
		Date:         value("date"),
		Time:         value("time"),
		Title:        value("title"),
		Agenda:       value("agenda"),
		Participants: value("participants"),
		Organizer:    requester(interaction, state),
		GuildID:      interaction.GuildID,
		ChannelID:    interaction.ChannelID,
	}
}

// errorText renders $err for the invoking user. Unexpected errors are reported.
func errorText(err error, options map[string]*discordgo.ApplicationCommandInteractionDataOption) string {
	var meetingErr *Error
	if !errors.As(err, &meetingErr) {
		helpers.RelaxLog(err)
		return helpers.GetText("bot.errors.generic")
	}

	if meetingErr.Kind == KindNotFound {
		var id int64
		if option, ok := options["id"]; ok {
			id = option.IntValue()
		}
		return helpers.GetTextF(meetingErr.TextID, id)
	}
	return helpers.GetText(meetingErr.TextID)
}
