package main

import (
	"fmt"
	"sync"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/helpers"
	"github.com/agora-bot/agora/modules"
	"github.com/bwmarrin/discordgo"
	"github.com/getsentry/raven-go"
)

var modulesOnce sync.Once

// BotOnReady gets called after the gateway connected.
// Reconnects fire it again, plugins are only initialized the first time.
func BotOnReady(session *discordgo.Session, event *discordgo.Ready) {
	log := cache.GetLogger()

	log.WithField("module", "bot").Info("Connected to discord as " + event.User.Username + "!")
	log.WithField("module", "bot").Info("Invite link: " + fmt.Sprintf(
		"https://discord.com/oauth2/authorize?client_id=%s&scope=bot%%20applications.commands&permissions=%d",
		event.User.ID,
		discordgo.PermissionSendMessages|discordgo.PermissionEmbedLinks|discordgo.PermissionAddReactions|
			discordgo.PermissionReadMessageHistory|discordgo.PermissionViewChannel,
	))

	// Cache the session
	cache.SetSession(session)

	// Load and init all modules
	modulesOnce.Do(func() {
		err := modules.Init(session, helpers.ConfigString("discord.guild_id", ""))
		if err != nil {
			log.WithField("module", "bot").Error("initializing modules failed: ", err.Error())
			raven.CaptureError(err, map[string]string{})
		}
	})

	err := session.UpdateWatchStatus(0, helpers.GetText("bot.status"))
	if err != nil {
		raven.CaptureError(err, map[string]string{})
	}
}

// BotOnInteractionCreate dispatches slash commands
func BotOnInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	modules.CallBotPlugin(interaction)
}

// BotOnReactionAdd gets called after a reaction is added
// This will be called after *every* reaction added on *every* server so it
// should die as soon as possible or spawn costly work inside of coroutines.
func BotOnReactionAdd(session *discordgo.Session, reaction *discordgo.MessageReactionAdd) {
	modules.CallExtendedPluginOnReactionAdd(reaction)
}

func BotOnReactionRemove(session *discordgo.Session, reaction *discordgo.MessageReactionRemove) {
	modules.CallExtendedPluginOnReactionRemove(reaction)
}

// BotDestroy deinitializes the plugins
func BotDestroy(session *discordgo.Session) {
	modules.Uninit(session)
}
