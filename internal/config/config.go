// Package config loads optional per-project settings for renote from a
// renote.yaml file. Absent settings fall back to the built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/epubstudio/renote/core/errors"
)

// DefaultFileName is the settings file looked up in the project root.
const DefaultFileName = "renote.yaml"

// Config holds the user-tunable settings.
type Config struct {
	// EndnotesFile overrides the name of the endnotes document.
	EndnotesFile string `yaml:"endnotes_file"`
	// Exclude replaces the default set of spine items to skip.
	Exclude []string `yaml:"exclude"`
	// TextDir overrides the content directory relative to the project root.
	TextDir string `yaml:"text_dir"`
}

// Load reads a settings file. A missing or unreadable file is an error;
// use FromProject for the tolerant lookup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewParse("YAML", path, err.Error())
	}
	return &cfg, nil
}

// FromProject looks for a settings file in the project root and returns an
// empty Config when there is none.
func FromProject(root string) (*Config, error) {
	path := filepath.Join(root, DefaultFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.NewIO("stat", path, err)
	}
	return Load(path)
}
