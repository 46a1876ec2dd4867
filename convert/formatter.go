package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"fxmig/config"
	"fxmig/markup"
)

// prettier configuration files we understand, JSON is valid YAML.
var prettierFiles = []string{".prettierrc", ".prettierrc.json", ".prettierrc.yaml", ".prettierrc.yml"}

type prettierOptions struct {
	PrintWidth *int `yaml:"printWidth"`
	TabWidth   *int `yaml:"tabWidth"`
}

// renderOptions builds layout of modified tags from configuration. When
// allowed, prettier settings found in dir (or any of its parents) take
// precedence over configured widths.
func renderOptions(dir string, cfg *config.FormatConfig, noFormat bool, log *zap.Logger) markup.RenderOptions {
	opts := markup.RenderOptions{
		WrapAttributes: cfg.Enable && !noFormat,
		PrintWidth:     cfg.PrintWidth,
		TabWidth:       cfg.TabWidth,
	}
	if !opts.WrapAttributes || !cfg.UsePrettierRC {
		return opts
	}

	name, po, err := findPrettierOptions(dir)
	if err != nil {
		log.Warn("Unable to load prettier options, using configured ones", zap.String("file", name), zap.Error(err))
		return opts
	}
	if po == nil {
		return opts
	}
	log.Debug("Loaded prettier options", zap.String("file", name))
	if po.PrintWidth != nil && *po.PrintWidth > 0 {
		opts.PrintWidth = *po.PrintWidth
	}
	if po.TabWidth != nil && *po.TabWidth >= 0 {
		opts.TabWidth = *po.TabWidth
	}
	return opts
}

func findPrettierOptions(dir string) (string, *prettierOptions, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		for _, n := range prettierFiles {
			name := filepath.Join(dir, n)
			data, err := os.ReadFile(name)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return name, nil, err
			}
			po := &prettierOptions{}
			if err := yaml.Unmarshal(data, po); err != nil {
				return name, nil, fmt.Errorf("unable to parse prettier options: %w", err)
			}
			return name, po, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}
