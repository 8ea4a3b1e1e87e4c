// docsgen generates a Markdown reference for the classes of a Python library.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phobologic/docsgen/internal/classify"
	"github.com/phobologic/docsgen/internal/config"
	"github.com/phobologic/docsgen/internal/discover"
	"github.com/phobologic/docsgen/internal/docsgen"
	"github.com/phobologic/docsgen/internal/loader"
	"github.com/phobologic/docsgen/internal/parse"
	"github.com/phobologic/docsgen/internal/probe"
	"github.com/phobologic/docsgen/internal/pyrt"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.AddCommand(newInitCmd(stdout, stderr))
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(context.Background())
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"python":        config.KeyPython,
	"static":        config.KeyStatic,
	"probe-timeout": config.KeyProbeTimeout,
	"load-timeout":  config.KeyLoadTimeout,
	"filler":        config.KeyFiller,
	"ignore":        config.KeyIgnore,
	"max-file-size": config.KeyMaxFileSize,
	"output-dir":    config.KeyOutputDir,
	"skip-tests":    config.KeySkipTests,
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "docsgen [flags] <library-name> <directory>",
		Short: "Generate Markdown documentation for a Python library",
		Long: `docsgen loads every Python module under <directory>, documents each class it
defines with its constructor and public methods, and writes the result to
<library-name>_documentation.md.

Modules are executed with a Python interpreter so that return values can be
sampled. With --static, or when no interpreter is found, sources are parsed
instead and return blocks show the declared types.

Settings are read from flags, DOCSGEN_* environment variables and
.docsgen.yaml, in that order. Run "docsgen init" to write a config file.`,
		Version:       version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.NewViper(configFile)
			if err != nil {
				return err
			}
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return generate(cmd.Context(), cfg, args[0], args[1], stdout, stderr)
		},
	}
	cmd.SetVersionTemplate("docsgen {{.Version}}\n")

	d := config.Default()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file (default ./"+config.FileName+")")
	f.String("python", d.Python, "Python interpreter (default python3, then python)")
	f.Bool("static", d.Static, "parse sources instead of executing them")
	f.Bool("no-probe", !d.Probe, "do not invoke methods to sample return values")
	f.Duration("probe-timeout", d.ProbeTimeout, "deadline for one method probe")
	f.Duration("load-timeout", d.LoadTimeout, "deadline for loading one module")
	f.String("filler", d.Filler, "probe argument filler: constant or typed")
	f.StringSlice("ignore", d.Ignore, "class names to skip (repeatable)")
	f.Int64("max-file-size", d.MaxFileSize, "skip files larger than this many bytes")
	f.String("output-dir", d.OutputDir, "directory for the generated document")
	f.Bool("no-gitignore", !d.Gitignore, "do not honor the root .gitignore")
	f.Bool("skip-tests", d.SkipTests, "skip test modules and test directories")
	return cmd
}

// bindFlags makes explicitly set flags override every other source.
// Negated flags are applied to their positive keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	for name, key := range map[string]string{"no-probe": config.KeyProbe, "no-gitignore": config.KeyGitignore} {
		if !flags.Changed(name) {
			continue
		}
		off, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		v.Set(key, !off)
	}
	return nil
}

func generate(ctx context.Context, cfg config.Config, lib, dir string, stdout, stderr io.Writer) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	warn := func(format string, args ...any) {
		_, _ = fmt.Fprintf(stderr, "Warning: "+format+"\n", args...)
	}

	filler, err := probe.FillerByName(cfg.Filler)
	if err != nil {
		return err
	}

	var backend loader.Backend = parse.Static{}
	var sampler *probe.Sampler
	if !cfg.Static {
		python, err := pyrt.Find(ctx, cfg.Python)
		if err != nil {
			warn("%v; falling back to static parsing", err)
		} else {
			rt := pyrt.New(python)
			rt.LoadTimeout = cfg.LoadTimeout
			backend = rt
			if cfg.Probe {
				sampler = &probe.Sampler{Prober: rt, Filler: filler, Timeout: cfg.ProbeTimeout, Warn: warn}
			}
		}
	}

	g := &docsgen.Generator{
		Loader: &loader.Loader{
			Backend:     backend,
			Discover:    discover.Options{Gitignore: cfg.Gitignore, SkipTests: cfg.SkipTests},
			MaxFileSize: cfg.MaxFileSize,
			Warn:        warn,
		},
		Classifier: classify.New(cfg.Ignore...),
		Sampler:    sampler,
		Warn:       warn,
	}

	outPath := docsgen.OutputPath(cfg.OutputDir, lib)
	stats, err := g.Generate(ctx, lib, root, outPath)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stderr, "wrote %s: %d classes, %d methods from %d modules (%d failed)\n",
		outPath, stats.Classes, stats.Methods, stats.Modules, stats.FailedModules)
	_, _ = fmt.Fprintln(stdout, "[!] Done")
	return nil
}
