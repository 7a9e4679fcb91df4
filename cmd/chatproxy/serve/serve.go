// Package servecmder provides the serve command that runs the chat endpoint.
package servecmder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jessearmand/chatproxy/pkg/config"
	"github.com/jessearmand/chatproxy/pkg/credentials"
	"github.com/jessearmand/chatproxy/pkg/dotdir"
	"github.com/jessearmand/chatproxy/pkg/logger"
	"github.com/jessearmand/chatproxy/pkg/utils"
	"github.com/jessearmand/chatproxy/pkg/vectorstore"
	"github.com/jessearmand/chatproxy/proxy"
)

type serveCommander struct {
	listen      string
	path        string
	strategy    string
	separator   string
	documents   []string
	vectorStore string
	maxResults  uint

	logFile   string
	configDir string
	debug     bool

	viper  *viper.Viper
	logger *slog.Logger
}

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagPath,
	config.FlagStrategy,
	config.FlagSeparator,
	config.FlagDocuments,
	config.FlagVectorStore,
	config.FlagMaxResults,
}

const serveLongDesc string = `Run the chat endpoint.

Each POST carries a visitor question. The question is grounded in the
résumé documents and answered by the configured strategy:

  single-search   OpenAI Responses API with web search
  dual-chained    OpenRouter, then xAI live search after a separator

API keys come from the environment (OPENAI_API_KEY, OPENROUTER_API_KEY,
XAI_API_KEY) or from credentials stored with 'chatproxy auth'.

Settings are layered: flags, then CHATPROXY_* environment variables,
then config.toml in the .chatproxy/ directory, then defaults.`

const serveShortDesc string = "Run the chat endpoint"

func NewServeCmd() *cobra.Command {
	return newServeCmd(&serveCommander{})
}

func newServeCmd(cmder *serveCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)
			cmder.viper = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagPath, &cmder.path)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagStrategy, &cmder.strategy)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagSeparator, &cmder.separator)
	config.AddStringSliceFlag(cmd, config.ServeFlags, config.FlagDocuments, &cmder.documents)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagVectorStore, &cmder.vectorStore)
	config.AddUintFlag(cmd, config.ServeFlags, config.FlagMaxResults, &cmder.maxResults)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *serveCommander) run() error {
	closeLog, err := c.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := config.FromViper(c.viper)

	keys, err := c.loadKeys()
	if err != nil {
		return err
	}

	p, err := proxy.New(proxy.ConfigFrom(cfg, keys, c.vectorStoreIDs(cfg)), c.logger)
	if err != nil {
		return fmt.Errorf("creating proxy: %w", err)
	}
	defer p.Close()

	errChan := make(chan error, 1)
	go func() {
		if err := p.Run(); err != nil {
			errChan <- fmt.Errorf("proxy error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return nil
	}
}

// setupLogger builds the pretty terminal logger and, with --log-file, fans
// records out to a JSON file as well.
func (c *serveCommander) setupLogger() (func(), error) {
	console := logger.New(logger.WithDebug(c.debug), logger.WithFormat(logger.FormatPretty))
	if c.logFile == "" {
		c.logger = console
		return func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	c.logger = logger.Multi(console, logger.New(
		logger.WithDebug(c.debug),
		logger.WithFormat(logger.FormatJSON),
		logger.WithWriter(f),
		logger.WithAttrs("service", "chatproxy", "version", utils.Version),
	))
	return func() { _ = f.Close() }, nil
}

// loadKeys snapshots credentials.toml. Environment variables are still read
// on every request by the resolver.
func (c *serveCommander) loadKeys() (*credentials.Resolver, error) {
	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	creds, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	for _, name := range credentials.SupportedProviders() {
		c.logger.Debug("credential source",
			"provider", name,
			"stored", creds.Has(name),
			"env", credentials.EnvVarForProvider(name),
		)
	}

	return credentials.NewResolver(creds), nil
}

// vectorStoreIDs reads the optional file search config. A relative path is
// resolved against the settings directory first, then the working directory.
func (c *serveCommander) vectorStoreIDs(cfg *config.Config) []string {
	path := cfg.VectorStore.ConfigPath
	if path == "" {
		return nil
	}

	if !filepath.IsAbs(path) {
		if candidate, err := dotdir.NewManager().File(c.configDir, path); err == nil {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	store, err := vectorstore.Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.logger.Debug("no vector store configured, file search disabled", "path", path)
		return nil
	case err != nil:
		c.logger.Warn("ignoring vector store config", "path", path, "error", err)
		return nil
	}

	c.logger.Info("file search enabled", "vector_store_id", store.ID, "name", store.Name)
	return store.IDs()
}
