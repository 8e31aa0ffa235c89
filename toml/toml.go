// Package toml reads and writes the client configuration file.
package toml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/rag"
)

// Load decodes the file at path over [rag.DefaultConfig], so keys absent
// from the file keep their defaults. Unknown keys are an error. A missing
// file returns an error wrapping fs.ErrNotExist.
func Load(path string) (rag.Config, error) {
	cfg := rag.DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return rag.DefaultConfig(), fmt.Errorf("toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return rag.DefaultConfig(), fmt.Errorf("toml: %s: unknown keys: %s: %w", path, strings.Join(keys, ", "), rag.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return rag.DefaultConfig(), fmt.Errorf("toml: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions, creating parent
// directories as needed.
func Save(path string, cfg rag.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("toml: create directories: %w", err)
	}
	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	fmt.Fprintln(file, "# rag client configuration")
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("toml: encode: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("toml: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("toml: rename temp file: %w", err)
	}
	return nil
}
