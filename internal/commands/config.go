package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the dashboard configuration after flags, environment
// (SMARTWASTE_*), .smartwaste.yaml and defaults are merged, in that order of
// precedence.
type Config struct {
	APIURL           string
	WSURL            string
	ExportDir        string
	LogFile          string
	StateDir         string
	NarrowWidth      int
	GoogleMapsAPIKey string
}

var flagKeys = map[string]string{
	"api-url":   "api_url",
	"ws-url":    "ws_url",
	"state-dir": "state_dir",
}

// LoadConfig reads the configuration. A missing config file is not an
// error; a malformed one is.
func LoadConfig(flags *pflag.FlagSet, configFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("ws_url", "")
	v.SetDefault("export_dir", "~/.smartwaste/exports")
	v.SetDefault("log_file", "~/.smartwaste/dashboard.log")
	v.SetDefault("state_dir", "~/.smartwaste/state")
	v.SetDefault("narrow_width", 100)
	v.SetDefault("google_maps_api_key", "")

	v.SetEnvPrefix("SMARTWASTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".smartwaste")
		v.AddConfigPath("./")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	cfg := Config{
		APIURL:           strings.TrimRight(v.GetString("api_url"), "/"),
		WSURL:            v.GetString("ws_url"),
		NarrowWidth:      v.GetInt("narrow_width"),
		GoogleMapsAPIKey: v.GetString("google_maps_api_key"),
	}
	var err error
	if cfg.ExportDir, err = homedir.Expand(v.GetString("export_dir")); err != nil {
		return Config{}, err
	}
	if cfg.LogFile, err = homedir.Expand(v.GetString("log_file")); err != nil {
		return Config{}, err
	}
	if cfg.StateDir, err = homedir.Expand(v.GetString("state_dir")); err != nil {
		return Config{}, err
	}
	if cfg.WSURL == "" {
		if cfg.WSURL, err = feedURL(cfg.APIURL); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// feedURL derives the bin-status socket from the REST base URL.
func feedURL(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/bin-status"
	return u.String(), nil
}
