package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	pingcaperrors "github.com/pingcap/errors"

	apperrors "github.com/agbru/primefind/internal/errors"
)

// FileConfig mirrors the TOML configuration file. Pointer fields are nil when
// the key is absent.
type FileConfig struct {
	Threads      *int    `toml:"threads"`
	UpperLimit   *int    `toml:"upper_limit"`
	PrintMode    *string `toml:"print_mode"`
	DivisionMode *string `toml:"division_mode"`
}

// LoadFile decodes the TOML file at path. A missing file yields an empty
// FileConfig unless explicit is set, in which case it is a ConfigError.
// Unknown keys are reported on warnWriter and otherwise ignored.
func LoadFile(path string, explicit bool, warnWriter io.Writer) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return fc, nil
		}
		return fc, apperrors.NewConfigError("config", "%v", pingcaperrors.Annotatef(err, "config file %s not readable", path))
	}

	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("config", "%v", pingcaperrors.Annotatef(err, "decode config file %s failed", path))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 && warnWriter != nil {
		fmt.Fprintf(warnWriter, "Warning: unknown configuration keys in %s: %v\n", path, undecoded)
	}
	return fc, nil
}

// applyConfigFile loads the configuration file and copies its values into
// cfg for every setting not given on the command line.
func applyConfigFile(cfg *AppConfig, fset *flag.FlagSet, warnWriter io.Writer) error {
	cfg.ConfigFileExplicit = isFlagSet(fset, "config")
	if !cfg.ConfigFileExplicit {
		if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" {
			cfg.ConfigFile = v
			cfg.ConfigFileExplicit = true
		}
	}

	fc, err := LoadFile(cfg.ConfigFile, cfg.ConfigFileExplicit, warnWriter)
	if err != nil {
		return err
	}
	if fc.Threads != nil && !isFlagSetAny(fset, "threads", "t") {
		cfg.Threads = *fc.Threads
	}
	if fc.UpperLimit != nil && !isFlagSetAny(fset, "limit", "n") {
		cfg.UpperLimit = *fc.UpperLimit
	}
	if fc.PrintMode != nil && !isFlagSet(fset, "print") {
		cfg.PrintMode = *fc.PrintMode
	}
	if fc.DivisionMode != nil && !isFlagSet(fset, "division") {
		cfg.DivisionMode = *fc.DivisionMode
	}
	return nil
}
