package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/sidebyside/pkg/compositor"
	"github.com/menta2k/sidebyside/pkg/layout"
	"github.com/menta2k/sidebyside/pkg/processing"
)

// Config holds the application configuration
type Config struct {
	Layout LayoutConfig `json:"layout" yaml:"layout" toml:"layout"`
	Output OutputConfig `json:"output" yaml:"output" toml:"output"`
	Input  InputConfig  `json:"input" yaml:"input" toml:"input"`
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`
}

// LayoutConfig holds the composition options
type LayoutConfig struct {
	Orientation  string `json:"orientation" yaml:"orientation" toml:"orientation"`
	Spacing      int    `json:"spacing" yaml:"spacing" toml:"spacing"`
	Background   string `json:"background" yaml:"background" toml:"background"`
	Resize       string `json:"resize" yaml:"resize" toml:"resize"`
	OutputWidth  int    `json:"output_width" yaml:"output_width" toml:"output_width"`
	OutputHeight int    `json:"output_height" yaml:"output_height" toml:"output_height"`
	Filter       string `json:"filter" yaml:"filter" toml:"filter"`
}

// OutputConfig holds configuration for the encoded result
type OutputConfig struct {
	FileName string `json:"file_name" yaml:"file_name" toml:"file_name"`
	FileType string `json:"file_type" yaml:"file_type" toml:"file_type"`
	Quality  int    `json:"quality" yaml:"quality" toml:"quality"`
	Lossless bool   `json:"lossless" yaml:"lossless" toml:"lossless"`
	Dir      string `json:"dir" yaml:"dir" toml:"dir"`
}

// InputConfig holds configuration for image ingestion
type InputConfig struct {
	// MaxDimension downscales inputs whose longer side exceeds it, 0 disables
	MaxDimension int `json:"max_dimension" yaml:"max_dimension" toml:"max_dimension"`
}

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	MaxUploadMB  int    `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	PublicURL    string `json:"public_url" yaml:"public_url" toml:"public_url"`
	ReadTimeoutS int    `json:"read_timeout_s" yaml:"read_timeout_s" toml:"read_timeout_s"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Orientation:  "horizontal",
			Spacing:      10,
			Background:   "#ffffff",
			Resize:       "original",
			OutputWidth:  1200,
			OutputHeight: 800,
			Filter:       "lanczos",
		},
		Output: OutputConfig{
			FileName: "sidebyside",
			FileType: "png",
			Quality:  processing.DefaultJPEGQuality,
			Dir:      ".",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxUploadMB:  32,
			ReadTimeoutS: 30,
		},
	}
}

// LoadFromFile loads configuration from a JSON, YAML or TOML file.
// Fields missing from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		err = json.Unmarshal(data, config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".toml":
		err = toml.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("unsupported config file type: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a file, choosing the encoding by extension
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported config file type: %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.LayoutConfig(); err != nil {
		return err
	}

	if _, err := compositor.ParseFilter(c.Layout.Filter); err != nil {
		return fmt.Errorf("layout.filter: %w", err)
	}

	if _, err := processing.ParseFormat(c.Output.FileType); err != nil {
		return fmt.Errorf("output.file_type: %w", err)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if strings.TrimSpace(c.Output.FileName) == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	if c.Input.MaxDimension < 0 {
		return fmt.Errorf("input.max_dimension must not be negative")
	}

	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}

	return nil
}

// LayoutConfig converts the layout section into layout engine options
func (c *Config) LayoutConfig() (layout.Config, error) {
	var cfg layout.Config

	orientation, err := layout.ParseOrientation(c.Layout.Orientation)
	if err != nil {
		return cfg, fmt.Errorf("layout.orientation: %w", err)
	}

	policy, err := layout.ParsePolicy(c.Layout.Resize)
	if err != nil {
		return cfg, fmt.Errorf("layout.resize: %w", err)
	}

	if c.Layout.Spacing < 0 {
		return cfg, fmt.Errorf("layout.spacing: %w: %d", layout.ErrInvalidSpacing, c.Layout.Spacing)
	}

	if policy == layout.Custom && (c.Layout.OutputWidth <= 0 || c.Layout.OutputHeight <= 0) {
		return cfg, fmt.Errorf("layout.output_width/output_height: %w: %dx%d",
			layout.ErrInvalidCustomDimension, c.Layout.OutputWidth, c.Layout.OutputHeight)
	}

	bg, err := processing.ParseColor(c.Layout.Background)
	if err != nil {
		return cfg, fmt.Errorf("layout.background: %w", err)
	}

	return layout.Config{
		Orientation:  orientation,
		Spacing:      c.Layout.Spacing,
		Policy:       policy,
		CustomWidth:  c.Layout.OutputWidth,
		CustomHeight: c.Layout.OutputHeight,
		Background:   bg,
	}, nil
}

// EncodeOptions converts the output section into encoder options
func (c *Config) EncodeOptions() (processing.EncodeOptions, error) {
	format, err := processing.ParseFormat(c.Output.FileType)
	if err != nil {
		return processing.EncodeOptions{}, fmt.Errorf("output.file_type: %w", err)
	}
	return processing.EncodeOptions{Format: format, Quality: c.Output.Quality, Lossless: c.Output.Lossless}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "sidebyside", "config.yaml")
}
