package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag. Commands reference
// flags by registry key rather than hard-coding names, shorthands, defaults
// and descriptions inline.
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of registry keys to Flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagListen      = "listen"
	FlagPath        = "path"
	FlagStrategy    = "strategy"
	FlagSeparator   = "separator"
	FlagDocuments   = "documents"
	FlagVectorStore = "vector-store-config"
	FlagMaxResults  = "xai-max-search-results"
)

// ServeFlags are the flags understood by the serve command.
var ServeFlags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "server.listen",
		Description: "Address to listen on",
	},
	FlagPath: {
		Name:        "path",
		ViperKey:    "server.path",
		Description: "Route the chat endpoint is mounted on",
	},
	FlagStrategy: {
		Name:        "strategy",
		Shorthand:   "s",
		ViperKey:    "strategy.name",
		Description: "Provider strategy (single-search, dual-chained)",
	},
	FlagSeparator: {
		Name:        "separator",
		ViperKey:    "strategy.separator",
		Description: "Marker written between chained answers",
	},
	FlagDocuments: {
		Name:        "documents",
		ViperKey:    "context.documents",
		Description: "Documents concatenated into the grounding context",
	},
	FlagVectorStore: {
		Name:        "vector-store-config",
		ViperKey:    "vector_store.config_path",
		Description: "Path to the vector store JSON written by the file search setup",
	},
	FlagMaxResults: {
		Name:        "xai-max-search-results",
		ViperKey:    "xai.max_search_results",
		Description: "Maximum live search results requested from xAI",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultViper().GetString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddStringSliceFlag registers a comma separated string slice flag.
func AddStringSliceFlag(cmd *cobra.Command, fs FlagSet, key string, target *[]string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultViper().GetStringSlice(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringSliceVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringSliceVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, key string, target *uint) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultViper().GetUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper. Call this in
// PreRunE after InitViper to connect flags to the precedence chain
// (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

func defaultViper() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
