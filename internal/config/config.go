package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-htmlprint/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// Field length limits.
const (
	MaxNameLength     = 64    // target and variant names
	MaxPathLength     = 4096  // PATH_MAX on Linux
	MaxSelectorLength = 512   // CSS selectors
	MaxCSSLength      = 65536 // inline override CSS
)

// Config is the optional project file. Everything it omits keeps the
// built-in defaults.
type Config struct {
	// ProjectDir anchors target paths; relative values are resolved
	// against the directory of the config file.
	ProjectDir string        `yaml:"projectDir"`
	Raster     bool          `yaml:"raster"`
	Browser    BrowserConfig `yaml:"browser"`
	Timeouts   TimeoutConfig `yaml:"timeouts"`
	Styles     StylesConfig  `yaml:"styles"`
	Targets    []Target      `yaml:"targets"`  // replaces the built-in manifest when set
	Variants   []Variant     `yaml:"variants"` // added to, or replacing, built-in variants

	// Path is the absolute path the config was loaded from.
	Path string `yaml:"-"`
}

// BrowserConfig selects and starts the browser.
type BrowserConfig struct {
	Engine    string `yaml:"engine"` // "rod" (default) or "chromedp"
	Bin       string `yaml:"bin"`    // empty = discovery
	NoSandbox bool   `yaml:"noSandbox"`
}

// TimeoutConfig holds Go duration strings ("60s", "1m30s").
type TimeoutConfig struct {
	Navigation string `yaml:"navigation"`
	Settle     string `yaml:"settle"`
}

// StylesConfig locates custom override stylesheets.
type StylesConfig struct {
	BasePath string `yaml:"basePath"` // {basePath}/styles/{name}.css; empty = embedded only
}

// Target is one export job. Paths are relative to the project directory.
type Target struct {
	Name      string `yaml:"name"`
	Source    string `yaml:"source"`
	Output    string `yaml:"output"`
	Mode      string `yaml:"mode"` // "vector" (default), "raster", "png"
	Variant   string `yaml:"variant"`
	AssetRoot string `yaml:"assetRoot"` // empty = source directory
	Optional  bool   `yaml:"optional"`
}

// Variant is a style override entry.
type Variant struct {
	Name           string    `yaml:"name"`
	Media          string    `yaml:"media"`
	Viewport       Viewport  `yaml:"viewport"`
	RasterViewport Viewport  `yaml:"rasterViewport"`
	Style          string    `yaml:"style"`
	CSS            string    `yaml:"css"`
	PageSelector   string    `yaml:"pageSelector"`
	Sizing         string    `yaml:"sizing"`   // "css", "fixed", "measured"
	Rounding       string    `yaml:"rounding"` // "nearest" (default), "up"
	Page           Page      `yaml:"page"`
	FirstPageOnly  bool      `yaml:"firstPageOnly"`
	Logo           *LogoSlot `yaml:"logo"`
	Inline         []string  `yaml:"inline"`
}

// Viewport is a layout size in CSS pixels at a device scale factor.
type Viewport struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// Page is a fixed page size in CSS pixels.
type Page struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LogoSlot names the selectors of a logo placeholder.
type LogoSlot struct {
	Container   string `yaml:"container"`
	Placeholder string `yaml:"placeholder"`
	Image       string `yaml:"image"`
}

// Validate checks values and field lengths. Called by LoadConfig, but
// available for configs built in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("projectDir", c.ProjectDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("styles.basePath", c.Styles.BasePath, MaxPathLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Browser.Engine) {
	case "", "rod", "chromedp":
	default:
		return fmt.Errorf("%w: browser.engine: %q (must be rod or chromedp)", ErrInvalidField, c.Browser.Engine)
	}

	if _, err := c.NavigationTimeout(); err != nil {
		return err
	}
	if _, err := c.SettleTimeout(); err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Variants))
	for i, v := range c.Variants {
		field := fmt.Sprintf("variants[%d]", i)
		if err := v.validate(field); err != nil {
			return err
		}
		if names[v.Name] {
			return fmt.Errorf("%w: %s.name: duplicate %q", ErrInvalidField, field, v.Name)
		}
		names[v.Name] = true
	}

	targets := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		field := fmt.Sprintf("targets[%d]", i)
		if err := t.validate(field); err != nil {
			return err
		}
		if targets[t.Name] {
			return fmt.Errorf("%w: %s.name: duplicate %q", ErrInvalidField, field, t.Name)
		}
		targets[t.Name] = true
	}
	return nil
}

func (t Target) validate(field string) error {
	if t.Name == "" {
		return fmt.Errorf("%w: %s.name: required", ErrInvalidField, field)
	}
	if t.Source == "" || t.Output == "" {
		return fmt.Errorf("%w: %s: source and output are required", ErrInvalidField, field)
	}
	if t.Variant == "" {
		return fmt.Errorf("%w: %s.variant: required", ErrInvalidField, field)
	}
	switch strings.ToLower(t.Mode) {
	case "", "vector", "pdf", "raster", "png":
	default:
		return fmt.Errorf("%w: %s.mode: %q (must be vector, raster or png)", ErrInvalidField, field, t.Mode)
	}

	checks := []struct {
		name  string
		value string
		max   int
	}{
		{"name", t.Name, MaxNameLength},
		{"variant", t.Variant, MaxNameLength},
		{"source", t.Source, MaxPathLength},
		{"output", t.Output, MaxPathLength},
		{"assetRoot", t.AssetRoot, MaxPathLength},
	}
	for _, c := range checks {
		if err := validateFieldLength(field+"."+c.name, c.value, c.max); err != nil {
			return err
		}
	}
	return nil
}

func (v Variant) validate(field string) error {
	if v.Name == "" {
		return fmt.Errorf("%w: %s.name: required", ErrInvalidField, field)
	}
	if err := validateFieldLength(field+".name", v.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".pageSelector", v.PageSelector, MaxSelectorLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".css", v.CSS, MaxCSSLength); err != nil {
		return err
	}

	switch strings.ToLower(v.Media) {
	case "", "print", "screen":
	default:
		return fmt.Errorf("%w: %s.media: %q (must be print or screen)", ErrInvalidField, field, v.Media)
	}
	switch strings.ToLower(v.Sizing) {
	case "", "css", "fixed", "measured":
	default:
		return fmt.Errorf("%w: %s.sizing: %q (must be css, fixed or measured)", ErrInvalidField, field, v.Sizing)
	}
	switch strings.ToLower(v.Rounding) {
	case "", "nearest", "up":
	default:
		return fmt.Errorf("%w: %s.rounding: %q (must be nearest or up)", ErrInvalidField, field, v.Rounding)
	}

	if v.Viewport.Width < 0 || v.Viewport.Height < 0 || v.Viewport.Scale < 0 {
		return fmt.Errorf("%w: %s.viewport: negative value", ErrInvalidField, field)
	}
	if v.Page.Width < 0 || v.Page.Height < 0 {
		return fmt.Errorf("%w: %s.page: negative value", ErrInvalidField, field)
	}
	if v.Logo != nil {
		for _, sel := range []string{v.Logo.Container, v.Logo.Placeholder, v.Logo.Image} {
			if err := validateFieldLength(field+".logo", sel, MaxSelectorLength); err != nil {
				return err
			}
		}
	}
	for j, name := range v.Inline {
		if err := validateFieldLength(fmt.Sprintf("%s.inline[%d]", field, j), name, MaxPathLength); err != nil {
			return err
		}
	}
	return nil
}

// NavigationTimeout parses timeouts.navigation; zero means unset.
func (c *Config) NavigationTimeout() (time.Duration, error) {
	return parseTimeout("timeouts.navigation", c.Timeouts.Navigation)
}

// SettleTimeout parses timeouts.settle; zero means unset.
func (c *Config) SettleTimeout() (time.Duration, error) {
	return parseTimeout("timeouts.settle", c.Timeouts.Settle)
}

func parseTimeout(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidField, field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s: must be positive, got %s", ErrInvalidField, field, s)
	}
	return d, nil
}

// ResolvedProjectDir returns ProjectDir as an absolute path, resolving
// a relative value against the config file's directory. Empty when
// neither is known.
func (c *Config) ResolvedProjectDir() string {
	dir := c.ProjectDir
	if dir == "" {
		if c.Path == "" {
			return ""
		}
		return filepath.Dir(c.Path)
	}
	if !filepath.IsAbs(dir) && c.Path != "" {
		dir = filepath.Join(filepath.Dir(c.Path), dir)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cfg Config
	if err := yamlutil.ReadStrict(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		cfg.Path = abs
	} else {
		cfg.Path = configPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// SearchPaths lists where a config name is looked up, in order:
// the current directory, then {UserConfigDir}/htmlprint, each with
// .yaml then .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, "htmlprint", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches SearchPaths for a config file by name.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
