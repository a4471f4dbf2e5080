// Package charterconfig reads the configuration of the charter server.
//
// A configuration file ending in .yaml or .yml is read as YAML;
// any other file is read as relaxed JSON (see github.com/rogpeppe/rjson),
// which allows trailing commas and omitted commas between fields.
//
// Sample configuration:
//
//	{
//		"listen-addr": "localhost:8089"
//		"source-url": "http://localhost:4242"
//		"channels": "1 2 3"
//		"interval": "250ms"
//		"horizon": 500
//		"chart": "chart-1"
//		"export-dir": "/var/lib/charter"
//		"log-config": "<root>=INFO;charter.collector=DEBUG"
//	}
package charterconfig

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/rogpeppe/rjson"
	"gopkg.in/errgo.v1"
	"gopkg.in/yaml.v2"
)

// Config holds the charter server configuration.
type Config struct {
	// ListenAddr holds the address the HTTP server listens on.
	ListenAddr string

	// SourceURL holds the base URL of the remote data source.
	SourceURL string

	// Channels holds the space-separated channel selectors
	// sent to the data source.
	Channels string

	// Interval holds the polling interval.
	Interval time.Duration

	// Horizon holds the number of samples shown before the
	// chart starts scrolling.
	Horizon int

	// Chart holds the id of the chart that is plotted.
	Chart string

	// ExportDir holds the directory that server-side exports
	// are written to. If it's empty, server-side export is disabled.
	ExportDir string

	// LogConfig holds the logging configuration in
	// loggo.ConfigureLoggers format.
	LogConfig string
}

// Default returns the configuration used when no
// configuration file is given.
func Default() *Config {
	return &Config{
		ListenAddr: "localhost:8089",
		SourceURL:  "http://localhost:4242",
		Channels:   "1 2 3",
		Interval:   250 * time.Millisecond,
		Horizon:    500,
		Chart:      "chart-1",
		LogConfig:  "<root>=INFO",
	}
}

// configFile holds the on-disk form of the configuration.
// Fields that are absent keep their default value.
type configFile struct {
	ListenAddr *string `json:"listen-addr" yaml:"listen-addr"`
	SourceURL  *string `json:"source-url" yaml:"source-url"`
	Channels   *string `json:"channels" yaml:"channels"`
	Interval   *string `json:"interval" yaml:"interval"`
	Horizon    *int    `json:"horizon" yaml:"horizon"`
	Chart      *string `json:"chart" yaml:"chart"`
	ExportDir  *string `json:"export-dir" yaml:"export-dir"`
	LogConfig  *string `json:"log-config" yaml:"log-config"`
}

// Load reads the configuration from the file at the given path.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errgo.Notef(err, "cannot read configuration")
	}
	cfg, err := Parse(data, isYAML(path))
	if err != nil {
		return nil, errgo.Notef(err, "bad configuration file %q", path)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Parse parses the configuration in data, which is read as YAML
// if asYAML is true, or relaxed JSON otherwise.
func Parse(data []byte, asYAML bool) (*Config, error) {
	var f configFile
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &f)
	} else {
		err = rjson.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, errgo.Notef(err, "cannot unmarshal configuration")
	}
	cfg := Default()
	setString(&cfg.ListenAddr, f.ListenAddr)
	setString(&cfg.SourceURL, f.SourceURL)
	setString(&cfg.Channels, f.Channels)
	setString(&cfg.Chart, f.Chart)
	setString(&cfg.ExportDir, f.ExportDir)
	setString(&cfg.LogConfig, f.LogConfig)
	if f.Interval != nil {
		d, err := time.ParseDuration(*f.Interval)
		if err != nil {
			return nil, errgo.Notef(err, "invalid interval")
		}
		cfg.Interval = d
	}
	if f.Horizon != nil {
		cfg.Horizon = *f.Horizon
	}
	if err := cfg.Validate(); err != nil {
		return nil, errgo.Mask(err)
	}
	return cfg, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Validate checks that the configuration is usable.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Interval <= 0:
		return errgo.Newf("interval %v is not positive", cfg.Interval)
	case cfg.Horizon <= 0:
		return errgo.Newf("horizon %d is not positive", cfg.Horizon)
	case cfg.ListenAddr == "":
		return errgo.New("no listen address")
	case cfg.SourceURL == "":
		return errgo.New("no data source URL")
	case cfg.Chart == "":
		return errgo.New("no chart id")
	case strings.TrimSpace(cfg.Channels) == "":
		return errgo.New("no channels")
	}
	return nil
}
