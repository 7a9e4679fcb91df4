package configcmder

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jessearmand/chatproxy/pkg/cliui"
	"github.com/jessearmand/chatproxy/pkg/config"
)

const listLongDesc string = `List all configuration values, grouped by section.

Each key is shown with the value chatproxy serve would use from config.toml
in the .chatproxy/ directory, falling back to the built-in default.

Examples:
  chatproxy config list`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd.OutOrStdout(), configDir)
		},
	}
}

func runList(out io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printTarget(out, cfger.GetTarget())

	keys := config.ValidConfigKeys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	section := ""
	for _, key := range keys {
		if head, _, _ := strings.Cut(key, "."); head != section {
			if section != "" {
				cliui.Printf(out, "\n")
			}
			section = head
			cliui.Printf(out, "  %s\n", cliui.HeaderStyle.Render("["+section+"]"))
		}

		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		shown := cliui.DimStyle.Render("<not set>")
		if value != "" {
			shown = cliui.ValueStyle.Render(strconv.Quote(value))
		}
		cliui.Printf(out, "  %s = %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-*s", width, key)), shown)
	}
	cliui.Printf(out, "\n")

	return nil
}
