package main

import (
	"encoding/json"
	"io/ioutil"
	"path"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/krancour/resman/internal/file"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const envconfigPrefix = "RESMAN"

// config is assembled from, in increasing order of precedence, the config file
// saved by the most recent login, RESMAN_* environment variables, and global
// flags.
type config struct {
	APIAddress     string        `json:"apiAddress" split_words:"true"`
	Insecure       bool          `json:"-"`
	SessionBackend string        `json:"-" split_words:"true" default:"file"`
	Home           string        `json:"-"`
	ResendCooldown time.Duration `json:"-" split_words:"true" default:"120s"`
	NoticeTTL      time.Duration `json:"-" split_words:"true" default:"10s"`
	RedirectDelay  time.Duration `json:"-" split_words:"true" default:"2s"`
}

func getConfig(c *cli.Context) (*config, error) {
	cfg := &config{}
	if err := envconfig.Process(envconfigPrefix, cfg); err != nil {
		return nil, errors.Wrap(
			err,
			"error getting resman configuration from environment",
		)
	}

	var err error
	if cfg.Home == "" {
		if cfg.Home, err = getResmanHome(); err != nil {
			return nil, errors.Wrapf(err, "error finding resman home")
		}
	} else if cfg.Home, err = homedir.Expand(cfg.Home); err != nil {
		return nil, errors.Wrapf(err, "error expanding resman home %s", cfg.Home)
	}

	if cfg.APIAddress == "" {
		saved, err := readSavedConfig(cfg.Home)
		if err != nil {
			return nil, err
		}
		cfg.APIAddress = saved.APIAddress
	}
	if server := c.String(flagServer); server != "" {
		cfg.APIAddress = server
	}
	if c.Bool(flagInsecure) {
		cfg.Insecure = true
	}

	if cfg.APIAddress == "" {
		return nil, errors.New(
			"no API server is known; please use " +
				"`resman --server <address> login` to continue",
		)
	}
	return cfg, nil
}

func readSavedConfig(resmanHome string) (*config, error) {
	saved := &config{}
	configFile := path.Join(resmanHome, "config")
	if !file.Exists(configFile) {
		return saved, nil
	}
	configBytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading resman config file at %s",
			configFile,
		)
	}
	if err := json.Unmarshal(configBytes, saved); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing resman config file at %s",
			configFile,
		)
	}
	return saved, nil
}

// saveConfig remembers the API server so that subsequent commands needn't be
// told about it.
func saveConfig(cfg *config) error {
	if err := file.EnsureDirectory(cfg.Home, 0700); err != nil {
		return errors.Wrapf(err, "error creating resman home at %s", cfg.Home)
	}
	configFile := path.Join(cfg.Home, "config")
	configBytes, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err := file.WriteAtomically(configFile, configBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing to %s", configFile)
	}
	return nil
}

func getResmanHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}
	return path.Join(homeDir, ".resman"), nil
}
