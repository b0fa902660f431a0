// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/absmach/deed/pkg/errors"
	"github.com/pelletier/go-toml"
)

const (
	defStoreURL  string = "localhost:7012"
	defTimeout   string = "5s"
	defRawOutput string = "false"
)

// Config selects the store the commands operate on. A non-empty Path
// selects a local store and takes precedence over URL.
type Config struct {
	Path    string
	URL     string
	Timeout time.Duration
}

type remotes struct {
	StoreURL string `toml:"store_url"`
}

type local struct {
	Path string `toml:"path"`
}

type config struct {
	Remotes   remotes `toml:"remotes"`
	Store     local   `toml:"store"`
	Timeout   string  `toml:"timeout"`
	RawOutput string  `toml:"raw_output"`
}

// Readable by all user groups but writeable by the user only.
const filePermission = 0o644

var (
	errReadFail       = errors.New("failed to read config file")
	errWritingConfig  = errors.New("error in writing the config to file")
	errInvalidTimeout = errors.New("invalid timeout")
	defaultConfigPath = "./config.toml"
)

func read(file string) (config, error) {
	c := config{}
	data, err := os.Open(file)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}
	defer data.Close()

	buf, err := io.ReadAll(data)
	if err != nil {
		return c, errors.Wrap(errReadFail, err)
	}

	if err := toml.Unmarshal(buf, &c); err != nil {
		return config{}, errors.Wrap(errReadFail, err)
	}

	return c, nil
}

// ParseConfig fills the values not set by flags from the config file,
// creating the file with default values if it does not exist.
func ParseConfig(cfg Config) (Config, error) {
	if ConfigPath == "" {
		ConfigPath = defaultConfigPath
	}

	_, err := os.Stat(ConfigPath)
	switch {
	// If the file does not exist, create it with default values.
	case os.IsNotExist(err):
		defaultConfig := config{
			Remotes: remotes{
				StoreURL: defStoreURL,
			},
			Timeout:   defTimeout,
			RawOutput: defRawOutput,
		}
		buf, err := toml.Marshal(defaultConfig)
		if err != nil {
			return cfg, err
		}
		if err = os.WriteFile(ConfigPath, buf, filePermission); err != nil {
			return cfg, errors.Wrap(errWritingConfig, err)
		}
	case err != nil:
		return cfg, err
	}

	c, err := read(ConfigPath)
	if err != nil {
		return cfg, err
	}

	if c.RawOutput != "" {
		rawOutput, err := strconv.ParseBool(c.RawOutput)
		if err != nil {
			return cfg, err
		}
		// check for config file value or flag input value is true
		RawOutput = rawOutput || RawOutput
	}

	if cfg.Timeout == 0 && c.Timeout != "" {
		timeout, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return cfg, errors.Wrap(errInvalidTimeout, err)
		}
		cfg.Timeout = timeout
	}
	if cfg.Timeout > 0 {
		Timeout = cfg.Timeout
	}

	if cfg.Path == "" && c.Store.Path != "" {
		cfg.Path = c.Store.Path
	}

	if cfg.URL == "" && c.Remotes.StoreURL != "" {
		cfg.URL = c.Remotes.StoreURL
	}

	return cfg, nil
}
