package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"tmplpatch/compiler"
	"tmplpatch/markup"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	MarkersConfig struct {
		Comment string `yaml:"comment" validate:"required"`
		Open    string `yaml:"open" validate:"required"`
		Close   string `yaml:"close" validate:"required"`
	}

	TemplateConfig struct {
		Format  string        `yaml:"format" validate:"required,oneof=html xml"`
		Markers MarkersConfig `yaml:"markers"`
	}

	OutputConfig struct {
		NameTemplate string `yaml:"name_template" validate:"required"`
		Indent       int    `yaml:"indent" validate:"gte=0,lte=8"`
		Parts        bool   `yaml:"parts"`
	}

	Config struct {
		Version  int            `yaml:"version" validate:"eq=1"`
		Template TemplateConfig `yaml:"template"`
		Output   OutputConfig   `yaml:"output"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

// NOTE: must match yaml field names above, these values are templates or
// template delimiters themselves and are expanded later (if at all)
var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField("name_template"),
	gencfg.WithDoNotExpandField("open"),
	gencfg.WithDoNotExpandField("close"),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// CompilerMarkers returns part markers compiler should look for.
func (conf *TemplateConfig) CompilerMarkers() compiler.Markers {
	return compiler.Markers{
		Comment: conf.Markers.Comment,
		Open:    conf.Markers.Open,
		Close:   conf.Markers.Close,
	}
}

// DefaultFormat returns markup format used when it cannot be detected from
// file name. Value is validated on load.
func (conf *TemplateConfig) DefaultFormat() markup.Format {
	f, err := markup.ParseFormat(conf.Format)
	if err != nil {
		return markup.FormatHTML
	}
	return f
}
