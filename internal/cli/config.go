package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/cytopush/pkg/containment"
	"github.com/matzehuels/cytopush/pkg/cyrest"
	"github.com/matzehuels/cytopush/pkg/errors"
	"github.com/matzehuels/cytopush/pkg/pipeline"
	"github.com/matzehuels/cytopush/pkg/style"
)

// Flag names shared by the flag set, the config file and the environment.
const (
	keyConfig    = "config"
	keyHost      = "host"
	keyPort      = "port"
	keyLayout    = "layout"
	keyTarget    = "target"
	keyPolicy    = "policy"
	keyStyleFile = "style"
	keyTimeout   = "timeout"
)

// flagValues holds the raw persistent flags.
type flagValues struct {
	configPath string
	host       string
	port       int
	layout     string
	target     string
	policy     string
	styleFile  string
	timeout    time.Duration
	verbose    bool
}

func (f *flagValues) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.configPath, keyConfig, "", "config file (default ~/.config/cytopush/config.toml)")
	flags.StringVar(&f.host, keyHost, cyrest.DefaultHost, "Cytoscape host")
	flags.IntVar(&f.port, keyPort, cyrest.DefaultPort, "CyREST port")
	flags.StringVarP(&f.layout, keyLayout, "l", pipeline.DefaultLayout, "layout algorithm to apply")
	flags.StringVarP(&f.target, keyTarget, "t", pipeline.DefaultTarget, "name of the containment root")
	flags.StringVar(&f.policy, keyPolicy, containment.PolicyEmptyIfChildless.String(), "childless target handling: empty, keep")
	flags.StringVarP(&f.styleFile, keyStyleFile, "s", "", "visual style file (.json, .yaml, .toml)")
	flags.DurationVar(&f.timeout, keyTimeout, 0, "per-request timeout (0 waits indefinitely)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")
}

// fileConfig is the TOML config file layout.
type fileConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Layout    string `toml:"layout"`
	Target    string `toml:"target"`
	Policy    string `toml:"policy"`
	StyleFile string `toml:"style_file"`
	Timeout   string `toml:"timeout"`
}

// settings is the resolved configuration for one invocation.
type settings struct {
	Host       string
	Port       int
	Layout     string
	Target     string
	Policy     string
	StyleFile  string
	Timeout    time.Duration
	ConfigFile string // file actually read, empty if none
}

func defaultSettings() settings {
	return settings{
		Host:   cyrest.DefaultHost,
		Port:   cyrest.DefaultPort,
		Layout: pipeline.DefaultLayout,
		Target: pipeline.DefaultTarget,
		Policy: containment.PolicyEmptyIfChildless.String(),
	}
}

// resolveSettings layers defaults, config file, environment and flags.
// Only flags the user set explicitly override earlier layers.
func resolveSettings(flags *pflag.FlagSet, f flagValues, getenv func(string) string) (settings, error) {
	s := defaultSettings()

	path, explicit := f.configPath, flags.Changed(keyConfig)
	if !explicit {
		if p := getenv(envPrefix + "CONFIG"); p != "" {
			path, explicit = p, true
		}
	}
	if path == "" {
		path = defaultConfigPath(getenv)
	}
	if path != "" {
		if err := s.applyFile(path, explicit); err != nil {
			return s, err
		}
	}

	if err := s.applyEnv(getenv); err != nil {
		return s, err
	}

	if flags.Changed(keyHost) {
		s.Host = f.host
	}
	if flags.Changed(keyPort) {
		s.Port = f.port
	}
	if flags.Changed(keyLayout) {
		s.Layout = f.layout
	}
	if flags.Changed(keyTarget) {
		s.Target = f.target
	}
	if flags.Changed(keyPolicy) {
		s.Policy = f.policy
	}
	if flags.Changed(keyStyleFile) {
		s.StyleFile = f.styleFile
	}
	if flags.Changed(keyTimeout) {
		s.Timeout = f.timeout
	}
	return s, nil
}

// defaultConfigPath returns the XDG config file location (~/.config/cytopush/config.toml).
func defaultConfigPath(getenv func(string) string) string {
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// applyFile merges a TOML config file. A missing default file is ignored;
// a missing file named by the user is an error.
func (s *settings) applyFile(path string, required bool) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if required {
				return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	s.ConfigFile = path
	setString(&s.Host, fc.Host)
	setString(&s.Layout, fc.Layout)
	setString(&s.Target, fc.Target)
	setString(&s.Policy, fc.Policy)
	if fc.StyleFile != "" {
		s.StyleFile = resolveRelative(filepath.Dir(path), fc.StyleFile)
	}
	if md.IsDefined("port") {
		s.Port = fc.Port
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s: timeout", path)
		}
		s.Timeout = d
	}
	return nil
}

// applyEnv merges CYTOPUSH_* environment variables.
func (s *settings) applyEnv(getenv func(string) string) error {
	setString(&s.Host, getenv(envPrefix+"HOST"))
	setString(&s.Layout, getenv(envPrefix+"LAYOUT"))
	setString(&s.Target, getenv(envPrefix+"TARGET"))
	setString(&s.Policy, getenv(envPrefix+"POLICY"))
	setString(&s.StyleFile, getenv(envPrefix+"STYLE_FILE"))

	if v := getenv(envPrefix + "PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sPORT", envPrefix)
		}
		s.Port = port
	}
	if v := getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sTIMEOUT", envPrefix)
		}
		s.Timeout = d
	}
	return nil
}

func (s settings) baseURL() string {
	return cyrest.BaseURL(s.Host, s.Port)
}

// loadStyle returns the configured style file, or the built-in style.
func (s settings) loadStyle() (style.Document, error) {
	if s.StyleFile == "" {
		return style.Builtin(), nil
	}
	return style.Load(s.StyleFile)
}

// pipelineConfig converts the settings into a validated push configuration.
func (s settings) pipelineConfig() (pipeline.Config, error) {
	if s.Port < 1 || s.Port > 65535 {
		return pipeline.Config{}, errors.New(errors.ErrCodeInvalidConfig, "port %d out of range", s.Port)
	}
	policy, err := containment.ParsePolicy(s.Policy)
	if err != nil {
		return pipeline.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "policy")
	}
	st, err := s.loadStyle()
	if err != nil {
		return pipeline.Config{}, err
	}

	cfg := pipeline.DefaultConfig()
	cfg.BaseURL = s.baseURL()
	cfg.Layout = s.Layout
	cfg.Target = s.Target
	cfg.Policy = policy
	cfg.Style = st
	if err := cfg.Validate(); err != nil {
		return pipeline.Config{}, err
	}
	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func resolveRelative(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
