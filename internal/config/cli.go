package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags wires the --config and --port CLI flags into viper, along
// with KEYWORDSCOPE_-prefixed environment variable overrides for every
// key in the config tree (e.g. KEYWORDSCOPE_SERVER_PORT,
// KEYWORDSCOPE_AI_OPENAI_APIKEY). Call once during cmd startup before
// Resolve.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to config file")
	flags.Int("port", 0, "override server.port")

	_ = viper.BindPFlag("configFile", flags.Lookup("config"))
	_ = viper.BindPFlag("server.port", flags.Lookup("port"))

	viper.SetEnvPrefix("KEYWORDSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Resolve loads the config file named by --config/KEYWORDSCOPE_CONFIGFILE
// (if set), then lets any bound flag or KEYWORDSCOPE_ environment
// variable override individual fields, and finally applies defaults
// and validates the result.
func Resolve() (*Config, error) {
	var cfg Config

	if path := viper.GetString("configFile"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if port := viper.GetInt("server.port"); port != 0 {
		cfg.Server.Port = port
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
