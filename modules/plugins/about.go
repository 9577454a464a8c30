package plugins

import (
	"github.com/agora-bot/agora/helpers"
	"github.com/agora-bot/agora/metrics"
	"github.com/agora-bot/agora/version"
	"github.com/bwmarrin/discordgo"
	humanize "github.com/dustin/go-humanize"
)

type About struct{}

func (a *About) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "about",
			Description: "Shows what this bot is and which version is running",
		},
	}
}

func (a *About) Init(session *discordgo.Session) {
}

func (a *About) Action(command string, interaction *discordgo.InteractionCreate, session *discordgo.Session) {
	embed := &discordgo.MessageEmbed{
		Title:       helpers.GetText("plugins.about.title"),
		Description: helpers.GetText("plugins.about.description"),
		Color:       0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: helpers.GetText("plugins.about.version"), Value: version.BOT_VERSION, Inline: true},
			{Name: helpers.GetText("plugins.about.built"), Value: version.BUILD_TIME, Inline: true},
			{Name: helpers.GetText("plugins.about.scheduled"), Value: humanize.Comma(metrics.MeetingsScheduled.Value()), Inline: true},
		},
	}

	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	helpers.RelaxLog(err)
}
