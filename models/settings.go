package models

// Theme values accepted by the settings store.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// Settings is the singleton user configuration persisted under the "settings" key.
type Settings struct {
	Theme               string          `json:"theme" yaml:"theme"`
	APIKey              string          `json:"apiKey" yaml:"api_key"`
	Feedback            FeedbackOptions `json:"feedback" yaml:"feedback"`
	EnableContentScript bool            `json:"enableContentScript" yaml:"enable_content_script"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		Theme:               ThemeSystem,
		EnableContentScript: true,
	}
}
