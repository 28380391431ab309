package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dColl/cmd/bench"
	"github.com/ValentinKolb/dColl/cmd/registry"
	"github.com/ValentinKolb/dColl/cmd/util"
	"github.com/ValentinKolb/dColl/lib/common"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dcoll",
		Short: "sorted collections and ordered teardown",
		Long: fmt.Sprintf(`dColl (v%s)

Tooling for the dColl library: generic sorted collections with pluggable
comparison strategies, and a dependency registry that tears down lazily
created singletons in reverse creation order.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setupProcess,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dColl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dColl v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(registry.RegistryCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupCommonFlags(RootCmd)
}

// setupProcess binds the flags of the executed command and installs the loggers
func setupProcess(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config := util.GetConfig()
	if err := common.InitLoggers(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
