package plugins

import (
	"time"

	"github.com/agora-bot/agora/helpers"
	"github.com/bwmarrin/discordgo"
)

type Ping struct{}

func (p *Ping) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Shows the gateway and API latency",
		},
	}
}

func (p *Ping) Init(session *discordgo.Session) {
}

func (p *Ping) Action(command string, interaction *discordgo.InteractionCreate, session *discordgo.Session) {
	started := time.Now()
	err := helpers.DeferResponse(session, interaction, true)
	if err != nil {
		helpers.RelaxLog(err)
		return
	}
	apiTaken := time.Since(started)

	text := helpers.GetTextF("plugins.ping.message",
		session.HeartbeatLatency().Round(time.Millisecond).String(),
		apiTaken.Round(time.Millisecond).String(),
	)
	helpers.RelaxLog(helpers.EditResponse(session, interaction, text, nil))
}
