package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type rootCmd struct{}

func (r *rootCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "bcpack",
		Usage: "[subcommand] [flags]",
		Desc:  "Compress images to BC1/BC3/BC4/BC5 DDS textures and back.",
	}
}

func (r *rootCmd) Run(fl *pflag.FlagSet) {
	fmt.Println("usage: bcpack encode bc1|bc3|bc4|bc5|auto [flags] files...")
	fmt.Println("       bcpack decode [flags] files...")
	os.Exit(2)
}

func (r *rootCmd) Subcommands() []cli.Command {
	return []cli.Command{
		&encodeCmd{},
		&decodeCmd{},
	}
}

// fail reports err the same way for every command and exits.
func fail(err error) {
	fmt.Printf("FAILED: %v\n", err)
	os.Exit(1)
}

func main() {
	cli.RunRoot(&rootCmd{})
}
