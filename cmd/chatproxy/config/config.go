// Package configcmder provides the config command for managing the
// persistent chatproxy configuration stored in the .chatproxy/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent chatproxy configuration.

Configuration is stored as config.toml in the .chatproxy/ directory and
provides default values for 'chatproxy serve'. CLI flags and CHATPROXY_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure, for example
server.listen, strategy.name, context.documents, openai.model,
openrouter.site_url or xai.max_search_results. Run 'chatproxy config list'
for all of them.

Examples:
  chatproxy config set strategy.name dual-chained
  chatproxy config set context.documents content/pages/about.md,content/pages/summary.md
  chatproxy config get xai.model
  chatproxy config list`

const configShortDesc string = "Manage persistent chatproxy configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
