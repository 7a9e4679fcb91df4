// Package chatproxycmder
package chatproxycmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/jessearmand/chatproxy/cmd/chatproxy/auth"
	configcmder "github.com/jessearmand/chatproxy/cmd/chatproxy/config"
	servecmder "github.com/jessearmand/chatproxy/cmd/chatproxy/serve"
	versioncmder "github.com/jessearmand/chatproxy/cmd/version"
)

const chatProxyLongDesc string = `chatproxy answers visitor questions about a résumé by streaming
grounded answers from LLM providers as Server-Sent Events.

Run the server using:
  chatproxy serve                  Run the chat endpoint
  chatproxy auth <provider>        Store a provider API key
  chatproxy config list            Show the configuration`

const chatProxyShortDesc string = "chatproxy - résumé chat endpoint"

func NewChatProxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "chatproxy",
		Short:        chatProxyShortDesc,
		Long:         chatProxyLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .chatproxy/ config directory")

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
