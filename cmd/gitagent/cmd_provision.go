package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitagent/internal/provision"
)

var (
	provisionDir    string
	provisionEnvDir string
	provisionGroups []string
	provisionPython string
)

// provisionCmd bootstraps the isolated runtime environment declared by
// the project's dependency manifest.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Bootstrap the project's isolated runtime environment",
	Long: `Creates the virtual environment if absent (an existing one is reused,
never reset), upgrades the package installer, installs the project in
editable mode with the requested optional dependency groups, and prints
the resulting installed package set.

The operation is sequential and fail-fast: the first failing step aborts
the rest and nothing is retried.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := provisionDir
		if dir == "" {
			var err error
			if dir, err = os.Getwd(); err != nil {
				return fmt.Errorf("resolve working directory: %w", err)
			}
		}

		p := provision.New(dir)
		p.Logger = logger
		if provisionEnvDir != "" {
			p.EnvDir = provisionEnvDir
		}
		if provisionPython != "" {
			p.Python = provisionPython
		}
		if cmd.Flags().Changed("group") {
			p.Groups = provisionGroups
		}

		report, err := p.Provision(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Environment %s at %s (%s, %d packages)\n",
			report.Env.State, report.Env.Root,
			report.Manifest.Project.Name, len(report.Packages))
		return nil
	},
}

func init() {
	provisionCmd.Flags().StringVar(&provisionDir, "dir", "", "project directory (default: current directory)")
	provisionCmd.Flags().StringVar(&provisionEnvDir, "env-dir", "", "environment directory (default: .venv)")
	provisionCmd.Flags().StringSliceVar(&provisionGroups, "group", []string{"dev"}, "optional dependency groups to install")
	provisionCmd.Flags().StringVar(&provisionPython, "python", "", "interpreter used to create the environment (default: python3)")
}
