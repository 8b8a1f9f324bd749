package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/bcpack/internal/s3tc/bc1"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bcpack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o666))
	return path
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv(configEnv, "")
	s, err := loadSettings("")
	require.NoError(t, err)
	require.Equal(t, defaultSettings(), s)

	opts, err := s.options()
	require.NoError(t, err)
	require.Equal(t, bc1.DefaultOptions(), opts)
}

func TestLoadSettingsFile(t *testing.T) {
	path := writeConfig(t, "level: 12\ncolor_mode: three\nflip: true\nmips: 3\nlz4: true\nsuffix: _c\n")
	t.Setenv(configEnv, path)

	s, err := loadSettings("")
	require.NoError(t, err)
	require.Equal(t, settings{
		Level:        12,
		ColorMode:    "three",
		Interpolator: bc1.Ideal.String(),
		Flip:         true,
		Mips:         3,
		LZ4:          true,
		Suffix:       "_c",
	}, s)

	_, err = loadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = loadSettings(writeConfig(t, "level: [nope"))
	require.Error(t, err)
}

func TestFlagsOverrideConfig(t *testing.T) {
	t.Setenv(configEnv, writeConfig(t, "level: 12\ncolor_mode: three\nflip: true\nmips: 3\n"))

	cmd := &encodeFormatCmd{format: "bc1"}
	fl := pflag.NewFlagSet("bc1", pflag.ContinueOnError)
	cmd.RegisterFlags(fl)
	require.NoError(t, fl.Parse([]string{"--level", "2", "--black", "--flip=false", "in.png"}))

	s, err := cmd.settings(fl)
	require.NoError(t, err)
	require.Equal(t, 2, s.Level)
	require.Equal(t, bc1.ThreeColorBlack.String(), s.ColorMode)
	require.False(t, s.Flip)
	require.Equal(t, 3, s.Mips, "unset flags keep the file value")
	require.Equal(t, []string{"in.png"}, fl.Args())
}

func TestSettingsOptionsErrors(t *testing.T) {
	s := defaultSettings()
	s.Level = bc1.ExhaustiveLevel + 1
	_, err := s.options()
	require.Error(t, err)

	s = defaultSettings()
	s.ColorMode = "five"
	_, err = s.options()
	require.Error(t, err)

	s = defaultSettings()
	s.Interpolator = "nvidia"
	opts, err := s.options()
	require.NoError(t, err)
	require.Equal(t, bc1.Nvidia, opts.Interpolator)
}

func TestBlackNeedsThreeColor(t *testing.T) {
	t.Setenv(configEnv, "")
	cmd := &encodeFormatCmd{format: "bc1"}
	fl := pflag.NewFlagSet("bc1", pflag.ContinueOnError)
	cmd.RegisterFlags(fl)
	require.NoError(t, fl.Parse([]string{"--black", "--4color"}))
	_, err := cmd.settings(fl)
	require.ErrorIs(t, err, errBlackFourColor)
}
