package registry

import (
	"os"

	libregistry "github.com/ValentinKolb/dColl/lib/registry"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Run a simulation and print the registry metrics in Prometheus format",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r := libregistry.New(libregistry.WithName("stats"))
		if _, err := simulate(r, getSimConfig()); err != nil {
			return err
		}
		r.WritePrometheus(os.Stdout)
		return nil
	},
}
