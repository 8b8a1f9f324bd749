package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/erinpentecost/bcpack/internal/s3tc/bc1"
)

// configEnv names a YAML defaults file used when --config isn't given.
const configEnv = "BCPACK_CONFIG"

// settings are the knobs shared by the config file and the command line.
type settings struct {
	Level        int    `yaml:"level"`
	ColorMode    string `yaml:"color_mode"`
	Interpolator string `yaml:"interpolator"`
	Flip         bool   `yaml:"flip"`
	Mips         int    `yaml:"mips"`
	LZ4          bool   `yaml:"lz4"`
	Suffix       string `yaml:"suffix"`
}

func defaultSettings() settings {
	opts := bc1.DefaultOptions()
	return settings{
		Level:        opts.Level,
		ColorMode:    opts.ColorMode.String(),
		Interpolator: opts.Interpolator.String(),
	}
}

// loadSettings returns the defaults overlaid with the YAML file at path, or
// at $BCPACK_CONFIG when path is empty. No file at all is not an error.
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("parse config %q: %w", path, err)
	}
	return s, nil
}

// commonFlags are registered by both encode and decode.
type commonFlags struct {
	config       string
	flip         bool
	remove       bool
	suffix       string
	output       string
	interpolator string
	quiet        bool
}

func (c *commonFlags) register(fl *pflag.FlagSet) {
	fl.StringVar(&c.config, "config", "", "YAML defaults file (default $"+configEnv+")")
	fl.BoolVar(&c.flip, "flip", false, "flip images vertically")
	fl.BoolVar(&c.remove, "remove", false, "delete each input after it converts")
	fl.StringVar(&c.suffix, "suffix", "", "appended to output file names")
	fl.StringVarP(&c.output, "output", "o", "", "output file or directory (default next to the input)")
	fl.StringVar(&c.interpolator, "interpolator", "", "BC1 interpolation: ideal, ideal-round, nvidia, amd")
	fl.BoolVarP(&c.quiet, "quiet", "q", false, "don't print progress")
}

// apply copies flags the user actually set over s.
func (c *commonFlags) apply(fl *pflag.FlagSet, s *settings) {
	if fl.Changed("flip") {
		s.Flip = c.flip
	}
	if fl.Changed("suffix") {
		s.Suffix = c.suffix
	}
	if fl.Changed("interpolator") {
		s.Interpolator = c.interpolator
	}
}

// options converts s into BC1 encoder options.
func (s settings) options() (bc1.Options, error) {
	mode, err := bc1.ParseColorMode(s.ColorMode)
	if err != nil {
		return bc1.Options{}, err
	}
	ip, err := s.interpolator()
	if err != nil {
		return bc1.Options{}, err
	}
	if s.Level < 0 || s.Level > bc1.ExhaustiveLevel {
		return bc1.Options{}, fmt.Errorf("level %d outside 0..%d", s.Level, bc1.ExhaustiveLevel)
	}
	return bc1.Options{Level: s.Level, ColorMode: mode, Interpolator: ip}, nil
}

func (s settings) interpolator() (bc1.Interpolator, error) {
	if s.Interpolator == "" {
		return bc1.Ideal, nil
	}
	return bc1.ParseInterpolator(s.Interpolator)
}
