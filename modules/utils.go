package modules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/helpers"
	"github.com/agora-bot/agora/metrics"
	"github.com/agora-bot/agora/ratelimits"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// Init registers the application commands and initializes the plugins.
// Commands are registered for $guildID only when it is set.
func Init(session *discordgo.Session, guildID string) error {
	err := checkDuplicateCommands()
	if err != nil {
		return err
	}

	pluginCache = make(map[string]*Plugin)
	extendedPluginCache = make(map[string]*ExtendedPlugin)
	commands := make([]*discordgo.ApplicationCommand, 0)

	logTemplate := "[PLUG] %s reacts to [ %s]"
	for i := range PluginList {
		ref := &PluginList[i]

		listeners := make([]string, 0)
		for _, cmd := range (*ref).Commands() {
			pluginCache[cmd.Name] = ref
			commands = append(commands, cmd)
			listeners = append(listeners, cmd.Name)
		}

		cache.GetLogger().WithField("module", "modules").Info(fmt.Sprintf(
			logTemplate,
			helpers.Typeof(*ref),
			strings.Join(listeners, " ")+" ",
		))

		(*ref).Init(session)
	}

	logTemplate = "[EXTENDED-PLUG] %s reacts to [ %s]"
	for i := range PluginExtendedList {
		ref := &PluginExtendedList[i]

		listeners := make([]string, 0)
		for _, cmd := range (*ref).Commands() {
			extendedPluginCache[cmd.Name] = ref
			commands = append(commands, cmd)
			listeners = append(listeners, cmd.Name)
		}

		cache.GetLogger().WithField("module", "modules").Info(fmt.Sprintf(
			logTemplate,
			helpers.Typeof(*ref),
			strings.Join(listeners, " ")+" ",
		))

		(*ref).Init(session)
	}

	_, err = session.ApplicationCommandBulkOverwrite(session.State.User.ID, guildID, commands)
	if err != nil {
		return errors.Wrap(err, "registering application commands")
	}

	cache.GetLogger().WithField("module", "modules").Info(
		"Initializer finished. Loaded " + strconv.Itoa(len(PluginList)) + " plugins and " +
			strconv.Itoa(len(PluginExtendedList)) + " extended plugins, registered " +
			strconv.Itoa(len(commands)) + " commands",
	)
	return nil
}

// Uninit deinitializes the extended plugins
func Uninit(session *discordgo.Session) {
	logTemplate := "[EXTENDED-PLUG] %s deinitializing…"
	for i := range PluginExtendedList {
		ref := &PluginExtendedList[i]

		cache.GetLogger().WithField("module", "modules").Info(fmt.Sprintf(
			logTemplate,
			helpers.Typeof(*ref),
		))

		(*ref).Uninit(session)
	}

	cache.GetLogger().WithField("module", "modules").Info(
		"Uninit finished. Uninitialized " + strconv.Itoa(len(PluginExtendedList)) + " extended plugins",
	)
}

// CallBotPlugin dispatches an application command interaction to its plugin
func CallBotPlugin(interaction *discordgo.InteractionCreate) {
	// Defer a recovery in case anything panics
	defer helpers.Recover()

	session := cache.GetSession()
	command := interaction.ApplicationCommandData().Name

	user := helpers.InteractionUser(interaction)
	if user == nil {
		return
	}

	// Consume a key for this action
	if ratelimits.Container.Drain(1, user.ID) != nil {
		helpers.RelaxLog(helpers.RespondEphemeral(session, interaction, helpers.GetTextF("bot.ratelimit.hit", user.ID)))
		ratelimits.Container.Set(user.ID, -1)
		return
	}

	// Track metrics
	metrics.CommandsExecuted.Add(1)

	cache.GetLogger().WithField("module", "modules").Debug(fmt.Sprintf("%s (#%s): /%s",
		user.Username, user.ID, command))

	// Call the module
	if ref, ok := pluginCache[command]; ok {
		(*ref).Action(command, interaction, session)
		return
	}
	// call the extended module
	if ref, ok := extendedPluginCache[command]; ok {
		(*ref).Action(command, interaction, session)
		return
	}

	helpers.RelaxLog(helpers.RespondEphemeral(session, interaction, helpers.GetText("bot.errors.unknown-command")))
}

func CallExtendedPluginOnReactionAdd(reaction *discordgo.MessageReactionAdd) {
	defer helpers.Recover()

	// Iterate over all plugins
	for _, extendedPlugin := range PluginExtendedList {
		extendedPlugin.OnReactionAdd(reaction, cache.GetSession())
	}
}

func CallExtendedPluginOnReactionRemove(reaction *discordgo.MessageReactionRemove) {
	defer helpers.Recover()

	// Iterate over all plugins
	for _, extendedPlugin := range PluginExtendedList {
		extendedPlugin.OnReactionRemove(reaction, cache.GetSession())
	}
}

func checkDuplicateCommands() error {
	cmds := make(map[string]string)

	register := func(plugin Plugin) error {
		t := helpers.Typeof(plugin)
		for _, cmd := range plugin.Commands() {
			if occupant, ok := cmds[cmd.Name]; ok {
				return errors.New("failed to load " + t + " because '" + cmd.Name + "' was already registered by " + occupant)
			}
			cmds[cmd.Name] = t
		}
		return nil
	}

	for _, plug := range PluginList {
		if err := register(plug); err != nil {
			return err
		}
	}
	for _, plug := range PluginExtendedList {
		if err := register(plug); err != nil {
			return err
		}
	}
	return nil
}
