// Package config loads and saves the add2cal YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/add2cal/internal/event"
)

const (
	DefaultListen         = "127.0.0.1:8080"
	DefaultSiteDomain     = "tinkerhub.org"
	DefaultTimezone       = "Asia/Kolkata"
	DefaultZoneAbbrev     = "IST"
	DefaultTargetOffset   = 5*time.Hour + 30*time.Minute
	DefaultDuration       = 2 * time.Hour
	DefaultBoundaryMarker = "These might interest you"
	DefaultFetchTimeout   = 30 * time.Second
	DefaultCacheMaxAge    = 300
	DefaultLogLevel       = "info"
	DefaultCalendarName   = "TinkerHub Events"
	configTempFilePattern = ".add2cal-config-*.tmp"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for `add2cal serve`.
	Listen string `yaml:"listen" json:"listen"`

	// SiteDomain must appear in the host of every relayed page.
	SiteDomain string `yaml:"site_domain" json:"site_domain"`

	// RelayURL, when set, routes page fetches through a page relay.
	RelayURL string `yaml:"relay_url,omitempty" json:"relay_url,omitempty"`

	// Timezone is the identifier written into calendar links and files.
	Timezone string `yaml:"timezone" json:"timezone"`
	// ZoneAbbrev names the fixed-offset zone of resolved instants.
	ZoneAbbrev string `yaml:"zone_abbrev" json:"zone_abbrev"`

	// SourceOffset is the UTC offset of clock times printed on event pages;
	// TargetOffset is the offset they are shown in. Equal offsets disable the shift.
	SourceOffset time.Duration `yaml:"source_offset" json:"source_offset"`
	TargetOffset time.Duration `yaml:"target_offset" json:"target_offset"`

	// DefaultDuration is the event length used when a page lists no end time.
	DefaultDuration time.Duration `yaml:"default_duration" json:"default_duration"`

	// BoundaryMarker cuts page text where unrelated event listings begin.
	BoundaryMarker string `yaml:"boundary_marker" json:"boundary_marker"`

	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
	CacheMaxAge  int           `yaml:"cache_max_age" json:"cache_max_age"`
	CalendarName string        `yaml:"calendar_name" json:"calendar_name"`
	LogLevel     string        `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          DefaultListen,
		SiteDomain:      DefaultSiteDomain,
		Timezone:        DefaultTimezone,
		ZoneAbbrev:      DefaultZoneAbbrev,
		SourceOffset:    0,
		TargetOffset:    DefaultTargetOffset,
		DefaultDuration: DefaultDuration,
		BoundaryMarker:  DefaultBoundaryMarker,
		FetchTimeout:    DefaultFetchTimeout,
		CacheMaxAge:     DefaultCacheMaxAge,
		CalendarName:    DefaultCalendarName,
		LogLevel:        DefaultLogLevel,
	}
}

// Normalize fills in missing or invalid values. Offsets are left alone since
// zero is a meaningful offset.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.SiteDomain == "" {
		c.SiteDomain = DefaultSiteDomain
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.ZoneAbbrev == "" {
		c.ZoneAbbrev = DefaultZoneAbbrev
	}
	if c.DefaultDuration <= 0 {
		c.DefaultDuration = DefaultDuration
	}
	if c.BoundaryMarker == "" {
		c.BoundaryMarker = DefaultBoundaryMarker
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.CacheMaxAge <= 0 {
		c.CacheMaxAge = DefaultCacheMaxAge
	}
	if c.CalendarName == "" {
		c.CalendarName = DefaultCalendarName
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = DefaultLogLevel
	}
}

// Zone is the fixed-offset location of resolved instants
func (c *Config) Zone() *time.Location {
	return time.FixedZone(c.ZoneAbbrev, int(c.TargetOffset/time.Second))
}

// Resolver builds the date resolver described by the offsets and duration.
func (c *Config) Resolver() *event.Resolver {
	return event.NewResolver(c.ZoneAbbrev, c.SourceOffset, c.TargetOffset, c.DefaultDuration)
}

// Load loads configuration from the given YAML path.
//
// A missing file is created with the defaults (mode 0600). Keys absent from an
// existing file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, configTempFilePattern)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// DefaultPath returns ~/.config/add2cal/config.yaml, or a relative path when
// the home directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "add2cal.yaml"
	}
	return filepath.Join(dir, "add2cal", "config.yaml")
}
