package helpers

import (
	"embed"
	"fmt"
	"math/rand"
	"sync"

	"github.com/Jeffail/gabs"
)

//go:embed assets/i18n.json
var assets embed.FS

var (
	translations     *gabs.Container
	translationsOnce sync.Once
)

// LoadTranslations parses the embedded catalogue, only the first call has an effect
func LoadTranslations() {
	translationsOnce.Do(func() {
		jsonFile, err := assets.ReadFile("assets/i18n.json")
		Relax(err)

		json, err := gabs.ParseJSON(jsonFile)
		Relax(err)

		translations = json
	})
}

// GetText looks up $id in the catalogue and returns $id itself if it is unknown.
// For arrays a random item is returned.
func GetText(id string) string {
	LoadTranslations()

	if !translations.ExistsP(id) {
		return id
	}

	item := translations.Path(id)

	switch value := item.Data().(type) {
	case string:
		return value
	case map[string]interface{}:
		if text, ok := value["__"].(string); ok {
			return text
		}
	case []interface{}:
		if len(value) > 0 {
			if text, ok := value[rand.Intn(len(value))].(string); ok {
				return text
			}
		}
	}

	return id
}

func GetTextF(id string, replacements ...interface{}) string {
	return fmt.Sprintf(GetText(id), replacements...)
}
