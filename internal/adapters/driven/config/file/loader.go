package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// DefaultArchiveSubdir is the archive directory inside the data directory
// when state.archive_dir is not set.
const DefaultArchiveSubdir = "articles"

// Load reads configuration from path, overlays the process environment
// and validates the result. An empty path or a missing file yields the
// defaults plus environment.
func Load(path string) (domain.Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	values, err := readFile(path)
	if err != nil {
		return domain.Config{}, err
	}
	for _, key := range sortedKeys(values) {
		if err := apply(&cfg, key, values[key]); err != nil {
			if errors.Is(err, errUnknownKey) {
				logger.Warn("config: ignoring unknown key %q in %s", key, path)
				continue
			}
			return domain.Config{}, fmt.Errorf("%w: %s: %w", domain.ErrConfigInvalid, key, err)
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return domain.Config{}, err
	}

	if cfg.State.ArchiveDir == "" {
		cfg.State.ArchiveDir = filepath.Join(cfg.State.DataDir, DefaultArchiveSubdir)
	}

	if err := Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// readFile parses the config file into flattened keys.
func readFile(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config: %s not found, using defaults", path)
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var loaded map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &loaded)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", domain.ErrConfigInvalid, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", domain.ErrConfigInvalid, filepath.Base(path), err)
	}

	if loaded == nil {
		return map[string]any{}, nil
	}
	return flattenMap(loaded, ""), nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}
