package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDirectory loads all YAML and JSON files from a directory and combines
// them into a single Config. Files are loaded in lexicographical order.
// Later files can override values from earlier files.
func LoadDirectory(dirPath string) (*Config, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var configFiles []string
	for _, entry := range entries {
		if !entry.IsDir() {
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext == ".yml" || ext == ".yaml" || ext == ".json" {
				configFiles = append(configFiles, filepath.Join(dirPath, entry.Name()))
			}
		}
	}
	sort.Strings(configFiles)

	if len(configFiles) == 0 {
		return nil, fmt.Errorf("no yaml or json files found in directory: %s", dirPath)
	}

	var merged *Config
	for _, file := range configFiles {
		config, err := ParseFile(file)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = config
		} else {
			merged = Merge(merged, config)
		}
	}
	return merged, nil
}

// Merge merges two configs, with the second one taking precedence. A
// generator in override replaces the base generator with the same key;
// new generators are appended in their original order.
func Merge(base, override *Config) *Config {
	result := &Config{LogLevel: base.LogLevel}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}

	replaced := make(map[string]Generator, len(override.Generators))
	for _, g := range override.Generators {
		replaced[g.Key()] = g
	}
	for _, g := range base.Generators {
		if r, ok := replaced[g.Key()]; ok {
			result.Generators = append(result.Generators, r)
			delete(replaced, g.Key())
			continue
		}
		result.Generators = append(result.Generators, g)
	}
	for _, g := range override.Generators {
		if _, ok := replaced[g.Key()]; ok {
			result.Generators = append(result.Generators, g)
		}
	}
	return result
}
