package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var errNoInputs = errors.New("no input files")

// job is one conversion from In to Out.
type job struct {
	In  string
	Out string
}

// expandInputs replaces each directory argument with the files directly in
// it that keep reports true for. Plain file arguments are kept as given.
func expandInputs(args []string, keep func(string) bool) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read directory %q: %w", arg, err)
		}
		for _, e := range entries {
			if !e.IsDir() && keep(e.Name()) {
				out = append(out, filepath.Join(arg, e.Name()))
			}
		}
	}
	if len(out) == 0 {
		return nil, errNoInputs
	}
	return out, nil
}

// outputName swaps the extension of in's base name for ext, adding suffix
// before it.
func outputName(in, suffix, ext string) string {
	base := filepath.Base(in)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + suffix + "." + strings.TrimPrefix(ext, ".")
}

// pairPaths decides where each input is written.
//
// With no output, files are written next to their inputs. An output that is
// an existing file, or that ends in ext while there is a single input, is
// the destination for that one input. Anything else is a directory that is
// created if needed.
func pairPaths(inputs []string, output, suffix, ext string) ([]job, error) {
	if len(inputs) == 0 {
		return nil, errNoInputs
	}
	jobs := make([]job, 0, len(inputs))
	if output == "" {
		for _, in := range inputs {
			jobs = append(jobs, job{In: in, Out: filepath.Join(filepath.Dir(in), outputName(in, suffix, ext))})
		}
		return checkJobs(jobs)
	}

	info, err := os.Stat(output)
	switch {
	case err == nil && !info.IsDir(),
		errors.Is(err, fs.ErrNotExist) && len(inputs) == 1 && strings.EqualFold(filepath.Ext(output), "."+strings.TrimPrefix(ext, ".")):
		if len(inputs) != 1 {
			return nil, fmt.Errorf("output %q is a file but there are %d inputs", output, len(inputs))
		}
		return checkJobs([]job{{In: inputs[0], Out: output}})
	case err == nil:
		// existing directory
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(output, 0o777); err != nil {
			return nil, fmt.Errorf("create directory %q: %w", output, err)
		}
	default:
		return nil, fmt.Errorf("stat %q: %w", output, err)
	}
	for _, in := range inputs {
		jobs = append(jobs, job{In: in, Out: filepath.Join(output, outputName(in, suffix, ext))})
	}
	return checkJobs(jobs)
}

// checkJobs rejects jobs that would overwrite their own input or write the
// same output twice.
func checkJobs(jobs []job) ([]job, error) {
	seen := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out := filepath.Clean(j.Out)
		if out == filepath.Clean(j.In) {
			return nil, fmt.Errorf("output for %q would overwrite it", j.In)
		}
		if slices.Contains(seen, out) {
			return nil, fmt.Errorf("more than one input writes %q", j.Out)
		}
		seen = append(seen, out)
	}
	return jobs, nil
}
