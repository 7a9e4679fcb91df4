// Package authcmder provides the auth command for storing provider API keys.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jessearmand/chatproxy/pkg/cliui"
	"github.com/jessearmand/chatproxy/pkg/credentials"
)

const authLongDesc string = `Store API keys for the upstream providers.

Keys are stored in credentials.toml in the .chatproxy/ directory with
0600 permissions. An environment variable (OPENAI_API_KEY,
OPENROUTER_API_KEY, XAI_API_KEY) always takes precedence over a stored key.

Supported providers: openai, openrouter, xai

Examples:
  chatproxy auth openai              Prompt for the OpenAI API key
  chatproxy auth xai                 Prompt for the xAI API key
  chatproxy auth --list              List stored credentials
  chatproxy auth --remove xai        Remove the stored xAI key
  echo $KEY | chatproxy auth openai  Pipe the API key from stdin`

const authShortDesc string = "Store API keys for upstream providers"

func NewAuthCmd() *cobra.Command {
	var listFlag bool
	var removeFlag string

	cmd := &cobra.Command{
		Use:   "auth [provider]",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			out := cmd.OutOrStdout()

			switch {
			case listFlag:
				return runList(out, configDir)
			case removeFlag != "":
				return runRemove(out, removeFlag, configDir)
			default:
				if len(args) == 0 {
					return fmt.Errorf("provider argument required\n\nSupported providers: %s",
						strings.Join(credentials.SupportedProviders(), ", "))
				}
				return runAuth(out, cmd.InOrStdin(), args[0], configDir)
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return credentials.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&listFlag, "list", false, "List stored credentials")
	cmd.Flags().StringVar(&removeFlag, "remove", "", "Remove stored credentials for a provider")

	return cmd
}

func runAuth(out io.Writer, in io.Reader, provider, configDir string) error {
	provider = credentials.NormalizeProvider(provider)

	if !credentials.IsSupportedProvider(provider) {
		return fmt.Errorf("unsupported provider: %q\n\nSupported providers: %s",
			provider, strings.Join(credentials.SupportedProviders(), ", "))
	}

	apiKey, err := readAPIKey(out, in, provider)
	if err != nil {
		return err
	}

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.SetKey(provider, apiKey); err != nil {
		return err
	}

	envVar := credentials.EnvVarForProvider(provider)
	cliui.Printf(out, "\n")
	cliui.Done(out, "Stored %s credentials %s",
		cliui.NameStyle.Render(provider),
		cliui.DimStyle.Render("(overridden by "+envVar+" when set)"),
	)
	if os.Getenv(envVar) != "" {
		cliui.Warn(out, "%s is set in this shell and wins over the stored key.", envVar)
	}
	fmt.Fprintln(out)

	return nil
}

func runList(out io.Writer, configDir string) error {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	providers, err := mgr.ListProviders()
	if err != nil {
		return err
	}

	if len(providers) == 0 {
		cliui.Printf(out, "\n  %s No stored credentials.\n", cliui.EmptyMark)
		cliui.Printf(out, "  Use 'chatproxy auth <provider>' to store credentials.\n")
		cliui.Printf(out, "  Supported providers: %s\n\n", strings.Join(credentials.SupportedProviders(), ", "))
		return nil
	}

	cliui.Title(out, "Stored credentials")
	for _, p := range providers {
		cliui.Done(out, "%s  %s", cliui.NameStyle.Render(p), cliui.DimStyle.Render("→ "+credentials.EnvVarForProvider(p)))
	}
	cliui.Printf(out, "\n")

	return nil
}

func runRemove(out io.Writer, provider, configDir string) error {
	provider = credentials.NormalizeProvider(provider)

	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.RemoveKey(provider); err != nil {
		return err
	}

	cliui.Printf(out, "\n")
	cliui.Done(out, "Removed %s credentials.", cliui.NameStyle.Render(provider))
	cliui.Printf(out, "\n")

	return nil
}

// readAPIKey reads an API key from in. A terminal gets a hidden prompt;
// anything else is read up to the first newline.
func readAPIKey(out io.Writer, in io.Reader, provider string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(out, "Enter API key for %s (%s): ", provider, credentials.EnvVarForProvider(provider))

		keyBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(keyBytes), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
