package modules

import (
	"github.com/agora-bot/agora/modules/plugins"
	"github.com/agora-bot/agora/modules/plugins/meetings"
)

var (
	pluginCache         map[string]*Plugin
	extendedPluginCache map[string]*ExtendedPlugin

	// Meetings has to be configured before the session connects
	Meetings = &meetings.Handler{}

	PluginList = []Plugin{
		&plugins.About{},
		&plugins.Ping{},
	}

	PluginExtendedList = []ExtendedPlugin{
		Meetings,
	}
)
