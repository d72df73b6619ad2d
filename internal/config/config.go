// Package config loads ParserOptions overrides from a project-local
// configuration file. Two formats are supported (spec 9's ambient config
// section): .elparser.kdl (primary, parsed with sblinch/kdl-go) and
// .elparser.toml (alternate, parsed with pelletier/go-toml/v2). Explicit
// in-code options always win; KDL beats TOML; both fall back to the
// package defaults.
package config

import (
	"os"
	"path/filepath"
)

// FileOptions is the subset of ParserOptions a config file may set. Nil
// fields mean "not specified in the file" so Resolve can tell a present
// false apart from an absence.
type FileOptions struct {
	StrictMode          *bool
	CalculateModuleSize *bool
}

const (
	kdlFileName  = ".elparser.kdl"
	tomlFileName = ".elparser.toml"
)

// Load searches projectRoot for .elparser.kdl then .elparser.toml and
// returns the first one found. Both absent is not an error; it returns a
// zero FileOptions so Resolve falls through to defaults.
func Load(projectRoot string) (FileOptions, error) {
	kdlPath := filepath.Join(projectRoot, kdlFileName)
	if _, err := os.Stat(kdlPath); err == nil {
		return loadKDL(kdlPath)
	}

	tomlPath := filepath.Join(projectRoot, tomlFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		return loadTOML(tomlPath)
	}

	return FileOptions{}, nil
}

// Defaults are the built-in ParserOptions values (spec 6): strict mode on,
// module size calculation off (it requires a full file-size pass over the
// package).
func Defaults() (strictMode bool, calculateModuleSize bool) {
	return true, false
}

// Resolve layers explicit > file > defaults, per field.
func Resolve(explicitStrict, explicitCalcSize *bool, file FileOptions) (strictMode bool, calculateModuleSize bool) {
	strictMode, calculateModuleSize = Defaults()

	if file.StrictMode != nil {
		strictMode = *file.StrictMode
	}
	if file.CalculateModuleSize != nil {
		calculateModuleSize = *file.CalculateModuleSize
	}

	if explicitStrict != nil {
		strictMode = *explicitStrict
	}
	if explicitCalcSize != nil {
		calculateModuleSize = *explicitCalcSize
	}

	return strictMode, calculateModuleSize
}
