package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".chunkcrawl"

// ErrConfigNotFound is returned when the configuration file does not
// exist. Callers decide whether that matters: a missing explicit path
// is an error, a missing default path is not.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads site overrides from a YAML file.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.Sites == nil {
		f.Sites = make(map[string]SiteConfig)
	}

	return &f, nil
}

// FindConfigFile locates the configuration file:
//  1. the explicit path, if given
//  2. .chunkcrawl in the current directory
//  3. .chunkcrawl in the XDG config directory
//  4. .chunkcrawl in the home directory
//
// Returns the empty string when nothing is found.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	candidate := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
