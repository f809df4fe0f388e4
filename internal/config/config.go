package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.json"

// ErrConfigCreated means no config file existed and a template was written
// in its place. The operator has to fill it in before the kiosk can start.
var ErrConfigCreated = errors.New("config file created; fill in admin_pass and database_path")

type Config struct {
	AdminPass    string `json:"admin_pass" yaml:"admin_pass"`
	DatabasePath string `json:"database_path" yaml:"database_path"`

	ExportDir string `json:"export_dir,omitempty" yaml:"export_dir,omitempty"` // default "dumps"
	HTTPAddr  string `json:"http_addr,omitempty" yaml:"http_addr,omitempty"`
	GRPCAddr  string `json:"grpc_addr,omitempty" yaml:"grpc_addr,omitempty"`

	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`   // debug|info|warn|error
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // text|json
}

func Defaults() Config {
	return Config{
		ExportDir: "dumps",
		HTTPAddr:  ":8080",
		GRPCAddr:  ":9090",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the config file at path, applies ATTENDANCE_* environment
// overrides and validates the result. A missing file is replaced by a
// template and reported as ErrConfigCreated.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if werr := writeTemplate(path); werr != nil {
			return Config{}, fmt.Errorf("create config %s: %w", path, werr)
		}
		return Config{}, fmt.Errorf("%s: %w", path, ErrConfigCreated)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(b), formatOf(path))
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document over Defaults. format is "json" or
// "yaml"; unknown fields are rejected in both.
func Parse(r io.Reader, format string) (Config, error) {
	cfg := Defaults()

	switch format {
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			if errors.Is(err, io.EOF) {
				return cfg, errors.New("config is empty")
			}
			return cfg, err
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			if errors.Is(err, io.EOF) {
				return cfg, errors.New("config is empty")
			}
			return cfg, err
		}
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.AdminPass) == "" {
		errs = append(errs, errors.New("admin_pass is required"))
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be text or json", c.LogFormat))
	}
	return errors.Join(errs...)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func writeTemplate(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpl := Config{}
	var (
		b   []byte
		err error
	)
	if formatOf(path) == "yaml" {
		b, err = yaml.Marshal(tmpl)
	} else {
		b, err = json.MarshalIndent(tmpl, "", "  ")
	}
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
