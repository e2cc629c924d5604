package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	htmlprint "github.com/alnah/go-htmlprint"
	"github.com/alnah/go-htmlprint/internal/config"
	"github.com/alnah/go-htmlprint/internal/fileutil"
	"github.com/alnah/go-htmlprint/internal/hints"
)

// settings is the merged run configuration: flags > env > file > defaults.
type settings struct {
	engine        string
	bin           string
	noSandbox     bool
	navTimeout    time.Duration
	settleTimeout time.Duration
	raster        bool
	projectDir    string
	stylesBase    string
	quiet         bool
}

// job pairs a resolved target with its variant.
type job struct {
	target  htmlprint.ExportTarget
	variant htmlprint.Variant
}

// newLogger builds the stderr logger for the run.
func newLogger(w io.Writer, f commonFlags) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	switch {
	case f.verbose:
		log.Level = logrus.DebugLevel
	case f.quiet:
		log.Level = logrus.ErrorLevel
	default:
		log.Level = logrus.InfoLevel
	}
	return log
}

// runExport exports every selected target on one browser session.
// Jobs run sequentially; the first failure aborts the run.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRunFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %s", ErrUsage, strings.Join(positional, " "))
	}

	log := newLogger(env.Stderr, flags.common)
	warnUnknownEnvVars(log, env.Environ())
	envCfg := loadEnvConfig(env.Getenv)

	cfg, err := loadRunConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}

	s, err := resolveSettings(flags, envCfg, cfg, env.Executable)
	if err != nil {
		return err
	}

	jobs, err := planJobs(cfg, s, flags.only)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		log.Warn("no targets selected")
		return nil
	}

	if s.bin == "" {
		res, err := htmlprint.ResolveBrowser(env.Strategies()...)
		if err != nil {
			log.Warn(err.Error() + hints.ForBrowserUnresolved())
		} else {
			s.bin = res.Path
			log.WithFields(logrus.Fields{"browser": res.Path, "strategy": res.Strategy}).Debug("browser resolved")
		}
	}

	engine, err := env.StartEngine(ctx, s.engine, htmlprint.EngineOptions{
		Bin:               s.bin,
		NoSandbox:         s.noSandbox,
		NavigationTimeout: s.navTimeout,
	})
	if err != nil {
		return fmt.Errorf("starting browser: %w%s", err, hints.ForBrowserConnect(env.Getenv))
	}
	defer func() {
		if err := engine.Close(); err != nil {
			log.WithError(err).Warn("closing browser")
		}
	}()

	styles, err := htmlprint.NewStyleLoader(s.stylesBase)
	if err != nil {
		return err
	}
	exp, err := env.NewExporter(engine,
		htmlprint.WithLogger(log),
		htmlprint.WithFS(env.FS),
		htmlprint.WithStyleLoader(styles),
		htmlprint.WithNavigationTimeout(s.navTimeout),
		htmlprint.WithSettleTimeout(s.settleTimeout),
	)
	if err != nil {
		return err
	}

	for _, j := range jobs {
		if j.target.Optional && !fileutil.FileExists(env.FS, j.target.Source) {
			log.WithField("target", j.target.Name).Info("source missing, optional target skipped")
			continue
		}

		res, err := exp.Export(ctx, j.target, j.variant)
		if err != nil {
			return fmt.Errorf("%s: %w%s", j.target.Name, err, hintFor(err, s.projectDir))
		}
		if !s.quiet {
			fmt.Fprintf(env.Stdout, "Wrote %s\n", res.Output)
		}
	}
	return nil
}

// loadRunConfig loads the config named by the flag, else by the
// environment. No name means no config.
func loadRunConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return nil, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolveSettings merges flags, environment and config.
func resolveSettings(flags *runFlags, envCfg *envConfig, cfg *config.Config, executable func() (string, error)) (*settings, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	s := &settings{
		engine:     firstNonEmpty(flags.browser.engine, envCfg.Engine, cfg.Browser.Engine),
		bin:        firstNonEmpty(flags.browser.bin, envCfg.BrowserBin, cfg.Browser.Bin),
		noSandbox:  flags.browser.noSandbox || envCfg.NoSandbox || cfg.Browser.NoSandbox,
		raster:     flags.raster || envCfg.Raster || cfg.Raster,
		stylesBase: cfg.Styles.BasePath,
		quiet:      flags.common.quiet,
	}
	s.engine = strings.ToLower(s.engine)
	if s.stylesBase != "" && !filepath.IsAbs(s.stylesBase) && cfg.Path != "" {
		s.stylesBase = filepath.Join(filepath.Dir(cfg.Path), s.stylesBase)
	}

	var err error
	if s.navTimeout, err = resolveTimeout(flags.browser.timeout, envCfg.Timeout, cfg); err != nil {
		return nil, err
	}
	if s.settleTimeout, err = cfg.SettleTimeout(); err != nil {
		return nil, err
	}

	if s.projectDir, err = resolveProjectDir(flags.projectDir, envCfg.ProjectDir, cfg, executable); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveTimeout returns the navigation timeout: flag > env > config.
// Zero keeps the library default.
func resolveTimeout(flagValue string, envValue time.Duration, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: --timeout %q (e.g., 30s, 2m)", ErrUsage, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	return cfg.NavigationTimeout()
}

// resolveProjectDir anchors all target paths: --project-dir >
// HTMLPRINT_PROJECT_DIR > config file > directory of the executable.
// The working directory is never used implicitly.
func resolveProjectDir(flagValue, envValue string, cfg *config.Config, executable func() (string, error)) (string, error) {
	dir := firstNonEmpty(flagValue, envValue)
	if dir == "" {
		dir = cfg.ResolvedProjectDir()
	}
	if dir == "" {
		exe, err := executable()
		if err != nil {
			return "", fmt.Errorf("%w: cannot locate executable, use --project-dir: %v", ErrUsage, err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Dir(exe)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: project dir %q: %v", ErrUsage, dir, err)
	}
	return abs, nil
}

// planJobs builds the job list and looks every variant up before any
// browser work, so a typo fails fast.
func planJobs(cfg *config.Config, s *settings, only []string) ([]job, error) {
	table, err := variantTable(cfg)
	if err != nil {
		return nil, err
	}

	entries := builtinManifest
	if cfg != nil && len(cfg.Targets) > 0 {
		if entries, err = manifestFromConfig(cfg.Targets); err != nil {
			return nil, err
		}
	}

	targets, err := buildTargets(entries, s.projectDir, s.raster, only)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForAvailable(targetNames(entries)))
	}

	jobs := make([]job, 0, len(targets))
	for _, t := range targets {
		v, err := table.Lookup(t.Variant)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.Name, err)
		}
		if !v.Supports(t.Mode) {
			return nil, fmt.Errorf("target %s: %w: %s cannot export %s", t.Name, htmlprint.ErrModeUnsupported, v.Name, t.Mode)
		}
		jobs = append(jobs, job{target: t, variant: v})
	}
	return jobs, nil
}

// hintFor picks the hint matching an export failure.
func hintFor(err error, projectDir string) string {
	switch {
	case errors.Is(err, htmlprint.ErrSourceNotFound):
		return hints.ForSourceNotFound(projectDir)
	case errors.Is(err, htmlprint.ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, htmlprint.ErrPageLoad):
		return hints.ForTimeout()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
