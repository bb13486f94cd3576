package define

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/smart-digest/internal/common"
	"github.com/dtnitsch/smart-digest/models"
	"github.com/dtnitsch/smart-digest/pkg/apiclient"
)

func DefineAction(c *cli.Context) error {
	logger := common.Logger(c)

	if c.NArg() != 1 {
		return cli.Exit("Error: define takes exactly one word", common.ExitUserError)
	}
	word := c.Args().First()

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return common.Fail(c, logger, common.ExitUserError, "failed to load config", err)
	}

	client := common.NewClient(cfg, logger)
	record, err := client.LookupWordDefinition(c.Context, word)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			fmt.Fprintf(c.App.ErrWriter, "No definition found for %q\n", word)
			return cli.Exit("", common.ExitUserError)
		}
		return common.Fail(c, logger, common.ExitRuntimeError, "definition lookup failed", err)
	}

	output := strings.ToLower(c.String("output"))
	if output == "text" {
		return WriteText(c.App.Writer, record, c.Int("max-definitions"))
	}
	return common.Encode(c.App.Writer, output, record)
}

// WriteText prints a definition for the terminal, at most limit definitions
// per part of speech (0 means all).
func WriteText(w io.Writer, record *models.DefinitionRecord, limit int) error {
	header := record.Word
	if record.Phonetic != "" {
		header += "  " + record.Phonetic
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for _, meaning := range record.Meanings {
		fmt.Fprintf(w, "\n%s\n", meaning.PartOfSpeech)
		for i, def := range meaning.Definitions {
			if limit > 0 && i >= limit {
				break
			}
			fmt.Fprintf(w, "  %d. %s\n", i+1, def.Definition)
			if def.Example != "" {
				fmt.Fprintf(w, "     e.g. %q\n", def.Example)
			}
		}
	}
	return nil
}
