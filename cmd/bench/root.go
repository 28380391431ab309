package bench

import (
	"strings"

	"github.com/ValentinKolb/dColl/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// BenchCmd runs the collection and registry benchmarks
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Benchmark the collection variants and singleton creation",
		RunE:    run,
		PreRunE: processBenchConfig,
	}
	benchSize       = 10_000
	benchNumThreads = 8
	benchRounds     = 200
	benchSkip       = make([]string, 0)
)

func init() {
	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. value-add,name-get)"))
	key = "threads"
	BenchCmd.Flags().Int(key, 8, util.WrapString("Number of goroutines for the parallel benchmarks"))
	key = "size"
	BenchCmd.Flags().Int(key, 10_000, util.WrapString("Number of elements each collection is filled with"))
	key = "rounds"
	BenchCmd.Flags().Int(key, 200, util.WrapString("Rounds of concurrent singleton creation for the singleton-race benchmark"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	benchSize = max(viper.GetInt("size"), 1)
	benchNumThreads = max(viper.GetInt("threads"), 1)
	benchRounds = max(viper.GetInt("rounds"), 1)
	benchSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}
