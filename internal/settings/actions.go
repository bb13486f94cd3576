package settings

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/smart-digest/internal/common"
	"github.com/dtnitsch/smart-digest/models"
	settingspkg "github.com/dtnitsch/smart-digest/pkg/settings"
)

// View is the printable form of the settings. The API key is masked.
type View struct {
	Theme               string   `json:"theme" yaml:"theme"`
	APIKey              string   `json:"api_key" yaml:"api_key"`
	EnableContentScript bool     `json:"enable_content_script" yaml:"enable_content_script"`
	Feedback            []string `json:"feedback" yaml:"feedback"`
	Format              string   `json:"format_preference" yaml:"format_preference"`
	Length              string   `json:"length_preference" yaml:"length_preference"`
}

// MaskKey keeps the first three and last four characters of a key.
func MaskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-7) + key[len(key)-4:]
}

func openStore(c *cli.Context) (*settingspkg.Store, func(), error) {
	logger := common.Logger(c)
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, nil, common.Fail(c, logger, common.ExitUserError, "failed to load config", err)
	}
	database, err := common.OpenDB(cfg)
	if err != nil {
		return nil, nil, common.Fail(c, logger, common.ExitRuntimeError, "failed to open database", err)
	}
	return settingspkg.NewStore(database), func() { _ = database.Close() }, nil
}

func ShowAction(c *cli.Context) error {
	store, closeFn, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	current, err := store.Load(c.Context)
	if err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to load settings", err)
	}
	format, length, err := store.LoadPreferences(c.Context)
	if err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to load preferences", err)
	}

	return common.Encode(c.App.Writer, c.String("output"), newView(current, format, length))
}

func newView(s models.Settings, format models.Format, length models.Length) View {
	feedback := s.Feedback.Enabled()
	if feedback == nil {
		feedback = []string{}
	}
	return View{
		Theme:               s.Theme,
		APIKey:              MaskKey(s.APIKey),
		EnableContentScript: s.EnableContentScript,
		Feedback:            feedback,
		Format:              string(format),
		Length:              string(length),
	}
}

func SetAction(c *cli.Context) error {
	store, closeFn, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeFn()

	current, err := store.Load(c.Context)
	if err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to load settings", err)
	}

	changed, err := Apply(c, &current)
	if err != nil {
		return err
	}
	if !changed {
		return cli.Exit("Error: nothing to change (see 'smart-digest settings set --help')", common.ExitUserError)
	}

	if err := store.Save(c.Context, current); err != nil {
		return common.Fail(c, common.Logger(c), common.ExitRuntimeError, "failed to save settings", err)
	}
	fmt.Fprintln(c.App.Writer, "Settings saved")
	return nil
}

// Apply copies every flag that was set onto s and reports whether anything changed.
func Apply(c *cli.Context, s *models.Settings) (bool, error) {
	changed := false

	if c.IsSet("api-key") {
		s.APIKey = strings.TrimSpace(c.String("api-key"))
		changed = true
	}
	if c.Bool("clear-api-key") {
		s.APIKey = ""
		changed = true
	}
	if c.IsSet("theme") {
		theme := strings.ToLower(c.String("theme"))
		if !settingspkg.ValidTheme(theme) {
			return false, cli.Exit(fmt.Sprintf("Error: unsupported theme %q (expected system, light or dark)", theme), common.ExitUserError)
		}
		s.Theme = theme
		changed = true
	}
	if c.IsSet("enable-content-script") {
		s.EnableContentScript = c.Bool("enable-content-script")
		changed = true
	}
	for _, name := range models.FeedbackNames {
		if c.IsSet(name) {
			s.Feedback.Set(name, c.Bool(name))
			changed = true
		}
	}
	return changed, nil
}
