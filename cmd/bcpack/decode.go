package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/erinpentecost/bcpack/internal/dds"
	"github.com/erinpentecost/bcpack/internal/imageio"
	"github.com/erinpentecost/bcpack/internal/texture"
)

type decodeCmd struct {
	common commonFlags
	ext      string
	mip      int
	channels []int
}

func (c *decodeCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "decode",
		Usage: "[flags] files...",
		Desc:  "Expand DDS files into plain images.",
	}
}

func (c *decodeCmd) RegisterFlags(fl *pflag.FlagSet) {
	c.common.register(fl)
	fl.StringVar(&c.ext, "ext", "png", "output image format: png, bmp, tga, tiff")
	fl.IntVar(&c.mip, "mip", 0, "mip level to write")
	fl.IntSliceVar(&c.channels, "channels", nil, "BC4: target channel, BC5: two target channels (0=R 1=G 2=B 3=A)")
}

func (c *decodeCmd) Run(fl *pflag.FlagSet) {
	if err := c.run(context.Background(), fl); err != nil {
		fail(err)
	}
}

func isDDS(name string) bool { return imageio.Ext(name) == "dds" }

func (c *decodeCmd) run(ctx context.Context, fl *pflag.FlagSet) error {
	s, err := loadSettings(c.common.config)
	if err != nil {
		return err
	}
	c.common.apply(fl, &s)
	ip, err := s.interpolator()
	if err != nil {
		return err
	}
	ext := strings.ToLower(strings.TrimPrefix(c.ext, "."))
	if !imageio.CanSave(ext) {
		return fmt.Errorf("%w: can't write %q images", texture.ErrUnsupportedFormat, ext)
	}
	inputs, err := expandInputs(fl.Args(), isDDS)
	if err != nil {
		return err
	}
	jobs, err := pairPaths(inputs, c.common.output, s.Suffix, ext)
	if err != nil {
		return err
	}

	var procs []imageio.Processor
	if s.Flip {
		procs = append(procs, imageio.FlipProcessor{})
	}
	return runJobs(ctx, jobs, c.common.remove, func(ctx context.Context, j job) error {
		f, err := dds.ReadFile(j.In)
		if err != nil {
			return err
		}
		f.Interpolator = ip
		f.Channels = c.channels
		if !c.common.quiet {
			fmt.Printf("Decoding %q (%s, %d mips) -> %q...\n", j.In, f.Format.FourCC, len(f.Mips), j.Out)
		}
		img, err := f.Decode(c.mip)
		if err != nil {
			return fmt.Errorf("decode %q: %w", j.In, err)
		}
		out, err := imageio.Apply(img, procs...)
		if err != nil {
			return fmt.Errorf("process %q: %w", j.In, err)
		}
		return imageio.Save(j.Out, out)
	})
}
