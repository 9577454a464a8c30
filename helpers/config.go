package helpers

import (
	"os"
	"strings"

	"github.com/Jeffail/gabs"
	"github.com/agora-bot/agora/cache"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// config Saves the bot-config
var config *gabs.Container

// DEBUG_MODE is set from the "debug" config key
var DEBUG_MODE = false

// LoadConfig loads .env (if present) and then the config from $path into $config.
// DISCORD_TOKEN from the environment takes precedence over discord.token.
func LoadConfig(path string) error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		cache.GetLogger().WithField("module", "config").Warn("loading .env failed: ", err.Error())
	}

	json, err := gabs.ParseJSONFile(path)
	if err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}

	if token := strings.TrimSpace(os.Getenv("DISCORD_TOKEN")); token != "" {
		_, err = json.SetP(token, "discord.token")
		if err != nil {
			return errors.Wrap(err, "applying DISCORD_TOKEN")
		}
	}

	SetConfig(json)
	return nil
}

// SetConfig replaces the active config
func SetConfig(c *gabs.Container) {
	config = c
	DEBUG_MODE = ConfigBool("debug", false)
}

// GetConfig is a config getter
func GetConfig() *gabs.Container {
	if config == nil {
		config = gabs.New()
	}
	return config
}

func ConfigString(path, fallback string) string {
	if value, ok := GetConfig().Path(path).Data().(string); ok && value != "" {
		return value
	}
	return fallback
}

func ConfigBool(path string, fallback bool) bool {
	if value, ok := GetConfig().Path(path).Data().(bool); ok {
		return value
	}
	return fallback
}

// ConfigInt accepts any JSON number
func ConfigInt(path string, fallback int) int {
	if value, ok := GetConfig().Path(path).Data().(float64); ok {
		return int(value)
	}
	return fallback
}

func ConfigStrings(path string) []string {
	items, ok := GetConfig().Path(path).Data().([]interface{})
	if !ok {
		return nil
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		if value, ok := item.(string); ok && value != "" {
			values = append(values, value)
		}
	}
	return values
}
