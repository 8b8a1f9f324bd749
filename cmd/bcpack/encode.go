package main

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/erinpentecost/bcpack/internal/dds"
	"github.com/erinpentecost/bcpack/internal/imageio"
	"github.com/erinpentecost/bcpack/internal/s3tc"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc1"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc3"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc4"
	"github.com/erinpentecost/bcpack/internal/s3tc/bc5"
)

var errBlackFourColor = errors.New("--black needs 3-color blocks, it can't be combined with --4color")

// encodeFormats are the encode subcommands, in help order.
var encodeFormats = []string{"bc1", "bc3", "bc4", "bc5", "auto"}

type encodeCmd struct{}

func (c *encodeCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "encode",
		Usage: "bc1|bc3|bc4|bc5|auto [flags] files...",
		Desc:  "Compress images into DDS files.",
	}
}

func (c *encodeCmd) Run(fl *pflag.FlagSet) {
	fail(fmt.Errorf("encode needs a format: %v", encodeFormats))
}

func (c *encodeCmd) Subcommands() []cli.Command {
	cmds := make([]cli.Command, len(encodeFormats))
	for i, f := range encodeFormats {
		cmds[i] = &encodeFormatCmd{format: f}
	}
	return cmds
}

// encodeFormatCmd encodes to one format, or picks BC1 or BC3 per image
// for "auto".
type encodeFormatCmd struct {
	format string

	common    commonFlags
	level     int
	black     bool
	three     bool
	four      bool
	mips      int
	lz4       bool
	colorMode string
	channels  []int
	opaque    bool
}

func (c *encodeFormatCmd) Spec() cli.CommandSpec {
	desc := map[string]string{
		"bc1":  "RGB with optional 1-bit alpha (DXT1).",
		"bc3":  "RGB with smooth alpha (DXT5).",
		"bc4":  "Single channel, red unless --channels says otherwise (ATI1).",
		"bc5":  "Two channels, red and green unless --channels says otherwise (ATI2).",
		"auto": "BC3 for images with any transparency, otherwise BC1.",
	}[c.format]
	return cli.CommandSpec{
		Name:  c.format,
		Usage: "[flags] files...",
		Desc:  desc,
	}
}

func (c *encodeFormatCmd) RegisterFlags(fl *pflag.FlagSet) {
	c.common.register(fl)
	fl.IntVarP(&c.level, "level", "l", bc1.DefaultLevel, fmt.Sprintf("quality level 0..%d, %d is exhaustive", bc1.ExhaustiveLevel, bc1.ExhaustiveLevel))
	fl.BoolVar(&c.black, "black", false, "BC1: allow 3-color blocks that use transparent black for dark pixels")
	fl.BoolVar(&c.three, "3color", false, "BC1: allow 3-color blocks")
	fl.BoolVar(&c.four, "4color", false, "BC1: only 4-color blocks")
	fl.StringVar(&c.colorMode, "color-mode", "", "BC1 color mode: four, three, three-black")
	fl.IntVar(&c.mips, "mips", 0, "mip levels to store, 0 for the full chain")
	fl.BoolVar(&c.lz4, "lz4", false, "wrap the output in an LZ4 frame")
	fl.IntSliceVar(&c.channels, "channels", nil, "BC4: source channel, BC5: two source channels (0=R 1=G 2=B 3=A)")
	fl.BoolVar(&c.opaque, "opaque", false, "ignore alpha: BC1 gets no transparent pixels, auto always picks BC1")
}

// settings merges the config file with the flags that were set.
func (c *encodeFormatCmd) settings(fl *pflag.FlagSet) (settings, error) {
	s, err := loadSettings(c.common.config)
	if err != nil {
		return s, err
	}
	c.common.apply(fl, &s)
	if fl.Changed("level") {
		s.Level = c.level
	}
	if fl.Changed("mips") {
		s.Mips = c.mips
	}
	if fl.Changed("lz4") {
		s.LZ4 = c.lz4
	}
	if fl.Changed("color-mode") {
		s.ColorMode = c.colorMode
	}
	if c.black && c.four {
		return s, errBlackFourColor
	}
	switch {
	case c.black:
		s.ColorMode = bc1.ThreeColorBlack.String()
	case c.three:
		s.ColorMode = bc1.ThreeColor.String()
	case c.four:
		s.ColorMode = bc1.FourColor.String()
	}
	return s, nil
}

func (c *encodeFormatCmd) Run(fl *pflag.FlagSet) {
	if err := c.run(context.Background(), fl); err != nil {
		fail(err)
	}
}

func (c *encodeFormatCmd) run(ctx context.Context, fl *pflag.FlagSet) error {
	s, err := c.settings(fl)
	if err != nil {
		return err
	}
	opts, err := s.options()
	if err != nil {
		return err
	}
	inputs, err := expandInputs(fl.Args(), imageio.CanLoad)
	if err != nil {
		return err
	}
	jobs, err := pairPaths(inputs, c.common.output, s.Suffix, "dds")
	if err != nil {
		return err
	}

	var procs []imageio.Processor
	if s.Flip {
		procs = append(procs, imageio.FlipProcessor{})
	}
	if c.opaque {
		procs = append(procs, imageio.OpaqueProcessor{})
	}
	return runJobs(ctx, jobs, c.common.remove, func(ctx context.Context, j job) error {
		img, err := imageio.Load(j.In)
		if err != nil {
			return err
		}
		src, err := imageio.Apply(img, procs...)
		if err != nil {
			return fmt.Errorf("process %q: %w", j.In, err)
		}
		enc, fourCC, err := newEncoder(c.format, src, opts, c.channels)
		if err != nil {
			return err
		}
		if !c.common.quiet {
			fmt.Printf("Encoding %q -> %q as %s...\n", j.In, j.Out, fourCC)
		}
		f, err := dds.Encode(src, enc, fourCC, s.Mips)
		if err != nil {
			return fmt.Errorf("encode %q: %w", j.In, err)
		}
		f.Interpolator = opts.Interpolator
		return f.WriteFile(j.Out, s.LZ4)
	})
}

// newEncoder builds the encoder for format and returns the FourCC its
// blocks are stored under. "auto" looks at img's alpha. channels picks the
// source channels for BC4 (one) and BC5 (two); empty means red and green.
func newEncoder(format string, img *image.NRGBA, opts bc1.Options, channels []int) (s3tc.TextureEncoder, string, error) {
	if format == "auto" {
		format = "bc1"
		if imageio.HasAlpha(img) {
			format = "bc3"
		}
	}
	switch format {
	case "bc1":
		enc, err := bc1.NewEncoder(opts)
		return enc, dds.BC1.FourCC, err
	case "bc3":
		enc, err := bc3.NewEncoder(opts)
		return enc, dds.BC3.FourCC, err
	case "bc4":
		ch := 0
		switch len(channels) {
		case 0:
		case 1:
			ch = channels[0]
		default:
			return nil, "", fmt.Errorf("bc4 takes one channel, got %v", channels)
		}
		enc, err := bc4.NewEncoder(ch)
		return enc, dds.BC4.FourCC, err
	case "bc5":
		if len(channels) == 0 {
			return bc5.Codec{}, dds.BC5.FourCC, nil
		}
		if len(channels) != 2 {
			return nil, "", fmt.Errorf("bc5 takes two channels, got %v", channels)
		}
		enc, err := bc5.NewCodec(channels[0], channels[1])
		return enc, dds.BC5.FourCC, err
	}
	return nil, "", fmt.Errorf("unknown format %q", format)
}
