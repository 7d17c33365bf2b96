package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caddybuilds/buildcheck/pkg/check"
	"github.com/caddybuilds/buildcheck/pkg/config"
	"github.com/caddybuilds/buildcheck/pkg/console"
	"github.com/caddybuilds/buildcheck/pkg/global"
)

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "buildcheck",
		Short:   "Decide whether a new custom Caddy image build is needed",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			console.SetColor(console.IsTerminal())
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          run,
	}
	setPersistentFlags(&rootCmd)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnvironment()
	if err != nil {
		return err
	}

	decision, err := check.New(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}

	console.Output(fmt.Sprintf("needs_build=%t latest_version=%s", decision.NeedsBuild, decision.LatestVersion))
	return nil
}
