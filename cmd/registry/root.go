package registry

import (
	"github.com/ValentinKolb/dColl/cmd/util"
	"github.com/spf13/cobra"
)

// RegistryCommands represents the registry command group
var RegistryCommands = &cobra.Command{
	Use:   "registry",
	Short: "Exercise the dependency registry",
}

func init() {
	key := "modules"
	RegistryCommands.PersistentFlags().Int(key, 2, util.WrapString("Number of modules to create"))

	key = "entries"
	RegistryCommands.PersistentFlags().Int(key, 3, util.WrapString("Number of entries per module"))

	key = "global"
	RegistryCommands.PersistentFlags().Int(key, 2, util.WrapString("Number of entries that belong to no module"))

	key = "referenced-every"
	RegistryCommands.PersistentFlags().Int(key, 0, util.WrapString("Mark every n-th entry as referenced (not destroyed on release). 0 disables"))

	key = "release"
	RegistryCommands.PersistentFlags().StringSlice(key, []string{"module-1"}, util.WrapString("Modules to release before the registry is closed (comma separated)"))

	key = "singletons"
	RegistryCommands.PersistentFlags().Bool(key, true, util.WrapString("Also create a singleton that depends on another singleton"))

	RegistryCommands.AddCommand(simulateCmd)
	RegistryCommands.AddCommand(statsCmd)
}
