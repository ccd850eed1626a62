package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional treecopy configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. A nil field means "not set".
type DefaultsConfig struct {
	Workers        *int    `toml:"workers"`
	BufferSize     *string `toml:"buffer_size"`
	Conflict       *string `toml:"conflict"`
	IncludeSpecial *bool   `toml:"include_special"`
	Audit          *bool   `toml:"audit"`
}

// ThemeConfig holds optional color overrides for terminal output.
type ThemeConfig struct {
	Green  *string `toml:"green"`
	Red    *string `toml:"red"`
	Yellow *string `toml:"yellow"`
	Muted  *string `toml:"muted"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "treecopy", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file from an explicit path. A missing file is
// not an error.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, &UnknownKeyError{Path: path, Key: undecoded[0].String()}
	}
	return cfg, nil
}

// UnknownKeyError reports a key in the config file that treecopy does not
// recognise, usually a typo.
type UnknownKeyError struct {
	Path string
	Key  string
}

func (e *UnknownKeyError) Error() string {
	return e.Path + ": unknown key " + e.Key
}
