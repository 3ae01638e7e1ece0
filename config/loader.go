package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	sprinterrors "github.com/grovetools/sprint/errors"
)

// Config file names, checked in order.
var configNames = []string{"sprint.yml", "sprint.yaml", "sprint.toml"}

// LoadDefault loads the configuration by searching from the current working
// directory upward. A missing config file is not an error; defaults apply.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	path, err := FindConfigFile(cwd)
	if err != nil {
		// No config file anywhere up the tree: run with defaults.
		return &Config{}, nil
	}

	return Load(path)
}

// Load reads and parses the config file at path. The extension selects the
// parser: .toml uses go-toml, everything else is YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sprinterrors.ConfigNotFound(path)
	}

	var cfg Config
	if strings.HasSuffix(path, ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, sprinterrors.Wrap(err, sprinterrors.ErrCodeConfigInvalid,
				"invalid TOML in "+path)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, sprinterrors.Wrap(err, sprinterrors.ErrCodeConfigInvalid,
				"invalid YAML in "+path)
		}
	}

	return &cfg, nil
}

// FindConfigFile walks from dir up to the filesystem root looking for a
// sprint config file.
func FindConfigFile(dir string) (string, error) {
	for {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", sprinterrors.ConfigNotFound(filepath.Join(dir, configNames[0]))
		}
		dir = parent
	}
}
