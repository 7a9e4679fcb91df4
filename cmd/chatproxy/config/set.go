package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jessearmand/chatproxy/pkg/cliui"
	"github.com/jessearmand/chatproxy/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Writes the key to config.toml in the .chatproxy/ directory. List values
such as context.documents are comma separated.

Examples:
  chatproxy config set strategy.name dual-chained
  chatproxy config set xai.max_search_results 10
  chatproxy config set openrouter.site_url https://example.com`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(cmd.OutOrStdout(), args[0], args[1], configDir)
		},
		ValidArgsFunction: completeKeys,
	}
}

func runSet(out io.Writer, key, value, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printTarget(out, cfger.GetTarget())

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	cliui.Done(out, "Set %s = %s", cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
	cliui.Printf(out, "\n")
	return nil
}
