package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phobologic/docsgen/internal/config"
)

const configHeader = `# docsgen configuration.
#
# Every key can be overridden by a DOCSGEN_<KEY> environment variable and by
# the matching command-line flag. Durations use Go syntax (10s, 1m30s).
#
#   python         interpreter command; empty tries python3, then python
#   static         parse sources instead of executing them
#   probe          invoke methods once to sample their return values
#   filler         probe arguments: "constant" (always 1) or "typed"
#   ignore         class names that are never documented
#   max_file_size  skip larger files (bytes)

`

// newInitCmd implements `docsgen init`, which writes a default
// configuration file.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun, force bool

	cmd := &cobra.Command{
		Use:   "init [flags] [path]",
		Short: "Write a default " + config.FileName,
		Long: `Write a docsgen configuration file holding the default settings.

path defaults to ./` + config.FileName + `. An existing file is left untouched
unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := generateConfig()
			if err != nil {
				return err
			}

			if dryRun {
				_, _ = fmt.Fprint(stdout, content)
				return nil
			}

			path := config.FileName
			if len(args) > 0 {
				path = args[0]
			}
			return writeConfig(path, content, force, stderr)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the configuration without writing it")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// generateConfig returns the commented default configuration file.
func generateConfig() (string, error) {
	data, err := config.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return configHeader + string(data), nil
}

func writeConfig(path, content string, force bool, stderr io.Writer) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(stderr, "wrote docsgen config to %s\n", path)
	return nil
}
