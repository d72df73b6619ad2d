package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	lcierrors "github.com/jcputney/elearning-module-parser/internal/errors"
)

// tomlDoc mirrors the [parser] table of an .elparser.toml file:
//
//	[parser]
//	strict_mode = true
//	calculate_module_size = false
type tomlDoc struct {
	Parser struct {
		StrictMode          *bool `toml:"strict_mode"`
		CalculateModuleSize *bool `toml:"calculate_module_size"`
	} `toml:"parser"`
}

func loadTOML(path string) (FileOptions, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileOptions{}, lcierrors.NewConfigError(path, "", err)
	}

	var doc tomlDoc
	if err := toml.Unmarshal(content, &doc); err != nil {
		return FileOptions{}, lcierrors.NewConfigError(path, "", err)
	}

	return FileOptions{
		StrictMode:          doc.Parser.StrictMode,
		CalculateModuleSize: doc.Parser.CalculateModuleSize,
	}, nil
}
