package modules

import "github.com/bwmarrin/discordgo"

type BaseModule interface{}

type Plugin interface {
	BaseModule

	// Commands returns the application commands this plugin owns
	Commands() []*discordgo.ApplicationCommand

	Init(session *discordgo.Session)

	Action(
		command string,
		interaction *discordgo.InteractionCreate,
		session *discordgo.Session,
	)
}

type ExtendedPlugin interface {
	Plugin

	Uninit(session *discordgo.Session)

	OnReactionAdd(
		reaction *discordgo.MessageReactionAdd,
		session *discordgo.Session,
	)

	OnReactionRemove(
		reaction *discordgo.MessageReactionRemove,
		session *discordgo.Session,
	)
}
