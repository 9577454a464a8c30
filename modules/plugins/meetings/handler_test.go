package meetings

import (
	"errors"
	"testing"
	"time"

	"github.com/agora-bot/agora/helpers"
	"github.com/bwmarrin/discordgo"
)

func scheduleInteraction() *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "guild",
			ChannelID: "channel",
			Member: &discordgo.Member{
				Nick: "Orga",
				User: &discordgo.User{ID: "organizer", Username: "organizer"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "meeting",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: "schedule",
						Type: discordgo.ApplicationCommandOptionSubCommand,
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							{Name: "date", Type: discordgo.ApplicationCommandOptionString, Value: "01/06/2030"},
							{Name: "time", Type: discordgo.ApplicationCommandOptionString, Value: "14:30"},
							{Name: "title", Type: discordgo.ApplicationCommandOptionString, Value: "Planning"},
							{Name: "agenda", Type: discordgo.ApplicationCommandOptionString, Value: "Roadmap"},
							{Name: "participants", Type: discordgo.ApplicationCommandOptionString, Value: "<@111>"},
						},
					},
				},
			},
		},
	}
}

func TestScheduleRequestFromInteraction(t *testing.T) {
	interaction := scheduleInteraction()
	subcommand, options := helpers.CommandOptions(interaction.ApplicationCommandData())
	if subcommand != "schedule" {
		t.Fatalf("expected schedule, got %q", subcommand)
	}

	request := scheduleRequest(interaction, options, nil)

	if request.Date != "01/06/2030" || request.Time != "14:30" || request.Title != "Planning" ||
		request.Agenda != "Roadmap" || request.Participants != "<@111>" {
		t.Errorf("unexpected request %+v", request)
	}
	if request.Organizer.UserID != "organizer" || request.Organizer.Name != "Orga" {
		t.Errorf("unexpected organizer %+v", request.Organizer)
	}
	if request.GuildID != "guild" || request.ChannelID != "channel" {
		t.Errorf("unexpected location %+v", request)
	}
}

func TestErrorText(t *testing.T) {
	options := map[string]*discordgo.ApplicationCommandInteractionDataOption{
		"id": {Name: "id", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(4)},
	}

	if got := errorText(ErrNotFound, options); got != "❌ There is no meeting #4." {
		t.Errorf("unexpected not found text %q", got)
	}
	if got := errorText(ErrNotInFuture, nil); got != "❌ The meeting date must be in the future!" {
		t.Errorf("unexpected validation text %q", got)
	}
	if got := errorText(errors.New("disk full"), nil); got != "Something went wrong, please try again later." {
		t.Errorf("unexpected generic text %q", got)
	}
}

func TestCommandsDeclareSubcommands(t *testing.T) {
	commands := (&Handler{}).Commands()
	if len(commands) != 1 || commands[0].Name != "meeting" {
		t.Fatalf("unexpected commands %+v", commands)
	}

	names := make(map[string]bool)
	for _, option := range commands[0].Options {
		if option.Type != discordgo.ApplicationCommandOptionSubCommand {
			t.Errorf("%s is not a subcommand", option.Name)
		}
		names[option.Name] = true
	}
	for _, name := range []string{"schedule", "list", "cancel"} {
		if !names[name] {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

func TestHandlerIgnoresReactionsBeforeReady(t *testing.T) {
	f := newFixture(t, testMeeting(1, testNow))
	handler := &Handler{}
	handler.Configure(Options{Store: f.Store, Notifier: f.Notifier, Clock: f.Clock})

	handler.OnReactionAdd(&discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    "alice",
			MessageID: "announcement-1",
			ChannelID: "channel",
			Emoji:     discordgo.Emoji{Name: "✅"},
		},
	}, nil)

	if got := f.Meeting(t, 1); got.IsConfirmed("alice") {
		t.Error("expected reactions to be ignored before ready")
	}
}

func TestHandlerTracksReactionsAfterReady(t *testing.T) {
	f := newFixture(t, testMeeting(1, testNow.Add(time.Hour)))
	handler := &Handler{}
	handler.Configure(Options{Store: f.Store, Notifier: f.Notifier, Clock: f.Clock})

	state := discordgo.NewState()
	state.User = &discordgo.User{ID: "bot"}
	session := &discordgo.Session{State: state}
	handler.Init(session)
	handler.Init(session)

	for _, userID := range []string{"bot", "alice"} {
		handler.OnReactionAdd(&discordgo.MessageReactionAdd{
			MessageReaction: &discordgo.MessageReaction{
				UserID:    userID,
				MessageID: "announcement-1",
				ChannelID: "channel",
				Emoji:     discordgo.Emoji{Name: "✅"},
			},
		}, session)
	}

	meeting := f.Meeting(t, 1)
	if !meeting.IsConfirmed("alice") || len(meeting.ConfirmedParticipants) != 1 {
		t.Errorf("expected only alice to be confirmed, got %v", meeting.ConfirmedParticipants)
	}

	handler.OnReactionRemove(&discordgo.MessageReactionRemove{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    "alice",
			MessageID: "announcement-1",
			ChannelID: "channel",
			Emoji:     discordgo.Emoji{Name: "✅"},
		},
	}, session)
	if got := f.Meeting(t, 1); got.IsConfirmed("alice") {
		t.Error("expected the confirmation to be withdrawn")
	}
}
