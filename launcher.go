package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/helpers"
	"github.com/agora-bot/agora/logging"
	"github.com/agora-bot/agora/metrics"
	"github.com/agora-bot/agora/modules"
	"github.com/agora-bot/agora/modules/plugins/meetings"
	"github.com/agora-bot/agora/ratelimits"
	"github.com/agora-bot/agora/rest"
	"github.com/agora-bot/agora/storage"
	"github.com/agora-bot/agora/version"
	"github.com/bwmarrin/discordgo"
	"github.com/getsentry/raven-go"
	"github.com/jonboulle/clockwork"
	"github.com/kz/discordrus"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Entrypoint
func main() {
	log := logrus.New()
	log.Out = os.Stdout
	log.Level = logrus.InfoLevel
	log.Formatter = &logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339}
	log.Hooks = make(logrus.LevelHooks)
	cache.SetLogger(log)

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config.json",
		Usage:   "path to the JSON config",
		EnvVars: []string{"AGORA_CONFIG"},
	}

	app := &cli.App{
		Name:    "agora",
		Usage:   "Discord bot that schedules community meetings and reminds participants.",
		Version: version.BOT_VERSION,
		Flags:   []cli.Flag{configFlag},
		Action:  runBot,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Connect to discord and start the reminder scheduler (default)",
				Action: runBot,
			},
			{
				Name:   "meetings",
				Usage:  "Print the upcoming meetings from the configured storage",
				Action: listMeetings,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithField("module", "launcher").Error(err.Error())
		os.Exit(1)
	}
}

// setup reads the config and attaches the configured log hooks
func setup(c *cli.Context) error {
	log := cache.GetLogger()

	err := helpers.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	// Check if the bot is being debugged
	if helpers.DEBUG_MODE {
		log.SetLevel(logrus.DebugLevel)
	}

	if path := helpers.ConfigString("logging.jsonfile", ""); path != "" {
		fileHook, err := logging.NewLogrusFileHook(path, log.GetLevel())
		if err != nil {
			log.WithField("module", "launcher").Error("logrus file hook failed, err: ", err.Error())
		} else {
			log.AddHook(fileHook)
		}
	}

	if webhook := helpers.ConfigString("logging.discord_webhook", ""); webhook != "" {
		log.AddHook(discordrus.NewHook(
			webhook,
			logrus.ErrorLevel,
			&discordrus.Opts{
				Username:           "Logging",
				DisableTimestamp:   false,
				TimestampFormat:    "Jan 2 15:04:05.00000",
				EnableCustomColors: true,
				CustomLevelColors: &discordrus.LevelColors{
					Error: 13631488,
					Panic: 13631488,
					Fatal: 13631488,
				},
			},
		))
	}

	// Read i18n
	helpers.LoadTranslations()
	return nil
}

func openStorage() (storage.Backend, error) {
	return storage.Open(storage.Config{
		Driver:       helpers.ConfigString("storage.driver", "file"),
		DataDir:      helpers.ConfigString("storage.data_dir", "data"),
		SQLitePath:   helpers.ConfigString("storage.sqlite_path", ""),
		RedisAddress: helpers.ConfigString("storage.redis.address", ""),
		RedisPrefix:  helpers.ConfigString("storage.redis.prefix", "agora:"),
	})
}

func meetingsLocation() (*time.Location, error) {
	name := helpers.ConfigString("meetings.timezone", "UTC")
	location, err := time.LoadLocation(name)
	return location, errors.Wrapf(err, "loading meetings.timezone %q", name)
}

func runBot(c *cli.Context) error {
	log := cache.GetLogger()

	err := setup(c)
	if err != nil {
		return err
	}

	log.WithField("module", "launcher").Info("Booting Agora...")

	// Show version
	version.DumpInfo()

	// Start metric server
	metrics.Init(helpers.ConfigString("metrics.address", ""))

	// Call home
	if dsn := helpers.ConfigString("sentry", ""); dsn != "" {
		log.WithField("module", "launcher").Info("[SENTRY] Calling home...")
		err = raven.SetDSN(dsn)
		if err != nil {
			return errors.Wrap(err, "configuring sentry")
		}
		if version.BOT_VERSION != "UNSET" {
			raven.SetRelease(version.BOT_VERSION)
		}
		log.WithField("module", "launcher").Info("[SENTRY] Someone picked up the phone \\^-^/")
	}

	location, err := meetingsLocation()
	if err != nil {
		return err
	}

	log.WithField("module", "launcher").Info("Opening " + helpers.ConfigString("storage.driver", "file") + " storage...")
	backend, err := openStorage()
	if err != nil {
		return err
	}
	defer backend.Close()

	token := helpers.ConfigString("discord.token", "")
	if token == "" {
		return errors.New("discord.token is not configured")
	}

	// Connect and add event handlers
	discordgo.Logger = discordLogger(log)
	log.WithField("module", "launcher").Info("Connecting Agora to discord...")
	discord, err := discordgo.New("Bot " + token)
	if err != nil {
		return errors.Wrap(err, "creating discord session")
	}

	discord.Lock()
	discord.Debug = false
	discord.LogLevel = discordgo.LogInformational
	discord.StateEnabled = true
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages
	discord.Unlock()

	store := meetings.NewStore(backend)
	modules.Meetings.Configure(meetings.Options{
		Store:          store,
		Notifier:       meetings.NewDiscordNotifier(discord),
		Clock:          clockwork.NewRealClock(),
		Location:       location,
		ElevatedRoles:  helpers.ConfigStrings("meetings.elevated_roles"),
		OrganizerRoles: helpers.ConfigStrings("meetings.organizer_roles"),
		SweepInterval:  time.Duration(helpers.ConfigInt("meetings.sweep_interval_seconds", 60)) * time.Second,
	})

	discord.AddHandler(BotOnReady)
	discord.AddHandler(BotOnInteractionCreate)
	discord.AddHandler(BotOnReactionAdd)
	discord.AddHandler(BotOnReactionRemove)
	discord.AddHandlerOnce(metrics.OnReady)

	// Wait until the os wants us to shutdown
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run ratelimiter
	ratelimits.Container.Init(ctx, clockwork.NewRealClock())

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		defer helpers.Recover()

		err := modules.Meetings.RunScheduler(ctx)
		if err != nil {
			log.WithField("module", "launcher").Error("meeting scheduler stopped: ", err.Error())
		}
	}()

	// Open REST API
	var server *http.Server
	if address := helpers.ConfigString("rest.address", ""); address != "" {
		server = &http.Server{
			Addr:    address,
			Handler: rest.NewContainer(modules.Meetings.Service, meetings.IsNotFound),
		}
		go func() {
			err := server.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				log.WithField("module", "launcher").Error("REST API stopped: ", err.Error())
			}
		}()
		log.WithField("module", "launcher").Info("REST API listening on " + address)
	}

	// Connect to discord
	err = discord.Open()
	if err != nil {
		raven.CaptureErrorAndWait(err, nil)
		stop()
		workers.Wait()
		return errors.Wrap(err, "connecting to discord")
	}

	<-ctx.Done()

	log.WithField("module", "launcher").Info("Agora is stopping")
	log.WithField("module", "launcher").Info("Uninitializing plugins...")
	BotDestroy(discord)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		helpers.RelaxLog(server.Shutdown(shutdownCtx))
		cancel()
	}

	log.WithField("module", "launcher").Info("Waiting for the scheduler...")
	workers.Wait()

	log.WithField("module", "launcher").Info("Disconnecting bot discord session...")
	return discord.Close()
}

// listMeetings prints the upcoming meetings without connecting to discord
func listMeetings(c *cli.Context) error {
	err := setup(c)
	if err != nil {
		return err
	}

	location, err := meetingsLocation()
	if err != nil {
		return err
	}

	backend, err := openStorage()
	if err != nil {
		return err
	}
	defer backend.Close()

	clock := clockwork.NewRealClock()
	service := &meetings.Service{
		Store:    meetings.NewStore(backend),
		Clock:    clock,
		Location: location,
	}
	upcoming, err := service.Upcoming(c.Context)
	if err != nil {
		return err
	}

	if len(upcoming) == 0 {
		fmt.Fprintln(c.App.Writer, helpers.GetText("plugins.meetings.list.empty"))
		return nil
	}
	for _, meeting := range upcoming {
		fmt.Fprintf(c.App.Writer, "#%-4d %s  (in %s)  %-30s  %d/%d confirmed, %d declined\n",
			meeting.ID,
			meeting.ScheduledAt.In(location).Format("02/01/2006 15:04"),
			helpers.TimeRemaining(meeting.ScheduledAt.Sub(clock.Now())),
			meeting.Title,
			len(meeting.ConfirmedParticipants),
			len(meeting.InvitedParticipants),
			len(meeting.DeclinedParticipants),
		)
	}
	return nil
}

func discordLogger(log *logrus.Logger) func(msgL, caller int, format string, a ...interface{}) {
	return func(msgL, caller int, format string, a ...interface{}) {
		pc, file, line, _ := runtime.Caller(caller)

		files := strings.Split(file, "/")
		file = files[len(files)-1]

		name := runtime.FuncForPC(pc).Name()
		fns := strings.Split(name, ".")
		name = fns[len(fns)-1]

		msg := format
		if strings.Contains(msg, "%") {
			msg = fmt.Sprintf(format, a...)
		}

		switch msgL {
		case discordgo.LogError:
			log.WithField("module", "discordgo").Errorf("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogWarning:
			log.WithField("module", "discordgo").Warnf("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogInformational:
			log.WithField("module", "discordgo").Infof("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogDebug:
			log.WithField("module", "discordgo").Debugf("%s:%d:%s() %s", file, line, name, msg)
		}
	}
}
