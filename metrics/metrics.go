package metrics

import (
	"expvar"
	"net/http"
	"runtime"
	"time"

	"github.com/agora-bot/agora/cache"
	"github.com/bwmarrin/discordgo"
)

var (
	// CommandsExecuted increases after each slash command invocation
	CommandsExecuted = expvar.NewInt("commands_executed")

	// MeetingsScheduled counts meetings created through the schedule command
	MeetingsScheduled = expvar.NewInt("meetings_scheduled")

	// MeetingsCancelled counts meetings removed through the cancel command
	MeetingsCancelled = expvar.NewInt("meetings_cancelled")

	// MeetingsExpired counts meetings removed by the expiry sweep
	MeetingsExpired = expvar.NewInt("meetings_expired")

	// RemindersSent counts reminder notifications, split by kind
	RemindersSent = expvar.NewMap("reminders_sent")

	// RSVPUpdates counts reaction events that changed a participant set
	RSVPUpdates = expvar.NewInt("rsvp_updates")

	// Sweeps counts completed scheduler passes
	Sweeps = expvar.NewInt("sweeps")

	// SweepErrors counts meetings whose processing failed during a sweep
	SweepErrors = expvar.NewInt("sweep_errors")

	// GuildCount counts all joined guilds
	GuildCount = expvar.NewInt("guild_count")

	// CoroutineCount counts all running coroutines
	CoroutineCount = expvar.NewInt("coroutine_count")

	// Uptime stores the timestamp of the bot's boot
	Uptime = expvar.NewInt("uptime")
)

// Init starts a http server exposing /debug/vars on $address
func Init(address string) {
	Uptime.Set(time.Now().Unix())
	if address == "" {
		return
	}

	cache.GetLogger().WithField("module", "metrics").Info("Listening on " + address)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/debug/vars", expvar.Handler())
		err := http.ListenAndServe(address, mux)
		if err != nil {
			cache.GetLogger().WithField("module", "metrics").Error("metrics server stopped: ", err.Error())
		}
	}()
}

// OnReady listens for said discord event
func OnReady(session *discordgo.Session, event *discordgo.Ready) {
	go CollectDiscordMetrics(session)
	go CollectRuntimeMetrics()
}

// CollectDiscordMetrics counts Guilds
func CollectDiscordMetrics(session *discordgo.Session) {
	for {
		time.Sleep(15 * time.Second)

		session.State.RLock()
		GuildCount.Set(int64(len(session.State.Guilds)))
		session.State.RUnlock()
	}
}

// CollectRuntimeMetrics counts all running coroutines
func CollectRuntimeMetrics() {
	for {
		time.Sleep(15 * time.Second)
		CoroutineCount.Set(int64(runtime.NumGoroutine()))
	}
}
