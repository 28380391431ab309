package bench

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/ValentinKolb/dColl/lib/coll"
	"github.com/ValentinKolb/dColl/lib/coll/locked"
	"github.com/ValentinKolb/dColl/lib/registry"
	"github.com/ValentinKolb/dColl/lib/util"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// benchItem is the element type of the object indexes
type benchItem struct {
	name     string
	priority int
}

// benchSingleton is the singleton type of the registry benchmarks
type benchSingleton struct {
	registry.Base
}

// result is one row of the benchmark report
type result struct {
	test    string
	nsPerOp float64
	skipped bool
}

func fromBenchmark(test string, r testing.BenchmarkResult) result {
	if r.NsPerOp() == 0 {
		return result{test: test, skipped: true}
	}
	return result{test: test, nsPerOp: math.Max(float64(r.NsPerOp()), 1)}
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("Benchmarks for dColl collections and the dependency registry")
	fmt.Println()
	fmt.Printf("Size: %d, Threads: %d, Rounds: %d\n", benchSize, benchNumThreads, benchRounds)
	fmt.Println()

	// fixed seed so runs are comparable
	rng := rand.New(rand.NewPCG(1, 2))
	keys := rng.Perm(benchSize)
	items := make([]*benchItem, benchSize)
	for i := range items {
		items[i] = &benchItem{name: fmt.Sprintf("Service-%d", keys[i]), priority: keys[i] % 100}
	}

	var results []result
	record := func(test string, fn func(b *testing.B)) {
		r := result{test: test, skipped: true}
		if !shouldSkip(test) {
			r = fromBenchmark(test, testing.Benchmark(fn))
		}
		results = append(results, r)
		printResult(r)
	}

	record("value-add", func(b *testing.B) {
		set := coll.NewValueSet[int]()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if set.Len() == benchSize {
				set.Clear()
			}
			set.Add(keys[i%benchSize])
		}
	})

	record("value-find", func(b *testing.B) {
		set := coll.NewValueSet(keys...)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			set.Contains(keys[i%benchSize])
		}
	})

	record("name-get", func(b *testing.B) {
		x := coll.NewNameIndex(func(e *benchItem) string { return e.name })
		for _, it := range items {
			x.Add(it)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			x.Get(items[i%benchSize].name)
		}
	})

	record("hash-get", func(b *testing.B) {
		x := coll.NewStringHashIndex(func(e *benchItem) string { return e.name }, util.GenerateSeed())
		for _, it := range items {
			x.Add(it)
		}
		hashKeys := make([]util.HashCode, benchSize)
		for i, it := range items {
			hashKeys[i] = x.HashKey(it.name)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			x.Get(hashKeys[i%benchSize])
		}
	})

	record("sortvalue-add-remove", func(b *testing.B) {
		x := coll.NewSortValueIndex(func(e *benchItem) int { return e.priority })
		for _, it := range items {
			x.Add(it)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			it := items[i%benchSize]
			x.Remove(it)
			x.AddAfter(it)
		}
	})

	lockedMetrics := gometrics.NewRegistry()
	record("locked-get-parallel", func(b *testing.B) {
		lc := locked.New[int, int](coll.OrderedStrategy[int]{},
			locked.WithMetrics(lockedMetrics, "locked"), locked.WithCapacity(benchSize))
		for _, k := range keys {
			lc.Add(k, coll.CollisionIgnore)
		}
		b.SetParallelism(benchNumThreads)
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				lc.Get(keys[counter%benchSize])
				counter++
			}
		})
	})

	record("singleton-get-parallel", func(b *testing.B) {
		r := registry.New(registry.WithName("bench"))
		b.Cleanup(r.Close)
		newSingleton := func() *benchSingleton { return &benchSingleton{} }
		b.SetParallelism(benchNumThreads)
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				registry.GetOrCreate(r, newSingleton)
			}
		})
	})

	race := result{test: "singleton-race", skipped: true}
	if !shouldSkip(race.test) {
		var err error
		if race, err = singletonRace(); err != nil {
			return err
		}
	}
	results = append(results, race)
	printResult(race)

	printTimers(lockedMetrics)

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// singletonRace lets benchNumThreads goroutines request the same singleton of
// a fresh registry at once, benchRounds times, and measures each round.
func singletonRace() (result, error) {
	durations := make([]time.Duration, 0, benchRounds)
	hist := gometrics.NewHistogram(gometrics.NewUniformSample(benchRounds))

	for round := 0; round < benchRounds; round++ {
		r := registry.New(registry.WithName("race"))
		created := 0
		newSingleton := func() *benchSingleton {
			created++
			return &benchSingleton{}
		}

		start := time.Now()
		var g errgroup.Group
		for i := 0; i < benchNumThreads; i++ {
			g.Go(func() error {
				registry.GetOrCreate(r, newSingleton)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return result{}, err
		}
		elapsed := time.Since(start)
		r.Close()

		if created != 1 {
			return result{}, fmt.Errorf("round %d: singleton created %d times", round, created)
		}
		durations = append(durations, elapsed)
		hist.Update(elapsed.Nanoseconds())
	}

	stats := util.NewDurationStats(durations)
	fmt.Printf("%-24sper round: mean %s, stddev %s, p99 %s, max %s\n", "singleton-race",
		time.Duration(stats.Mean), time.Duration(stats.StdDeviation),
		time.Duration(hist.Percentile(0.99)), time.Duration(stats.Max))

	return result{test: "singleton-race", nsPerOp: math.Max(stats.Mean/float64(benchNumThreads), 1)}, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range benchSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(r result) {
	if r.skipped {
		fmt.Printf("%-24sskipped\n", r.test)
		return
	}
	opsPerSec := 1.0 / (r.nsPerOp / 1e9)
	fmt.Printf("%-24s%.0fns/op (%s/op)\t%.0f ops/sec\n", r.test, r.nsPerOp, time.Duration(r.nsPerOp), opsPerSec)
}

// printTimers prints the timers recorded by the instrumented collections
func printTimers(reg gometrics.Registry) {
	var names []string
	timers := make(map[string]gometrics.Timer)
	reg.Each(func(name string, m interface{}) {
		if t, ok := m.(gometrics.Timer); ok && t.Count() > 0 {
			names = append(names, name)
			timers[name] = t
		}
	})
	if len(names) == 0 {
		return
	}
	sort.Strings(names)

	fmt.Println()
	fmt.Println("Collection timers:")
	for _, name := range names {
		t := timers[name]
		fmt.Printf("  %-22s count %d, mean %s, p99 %s\n", name, t.Count(),
			time.Duration(t.Mean()), time.Duration(t.Percentile(0.99)))
	}
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped", "Size", "Threads", "Rounds"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		var opsPerSec float64
		if !r.skipped {
			opsPerSec = 1.0 / (r.nsPerOp / 1e9)
		}

		row := []string{
			r.test,
			fmt.Sprintf("%.0f", r.nsPerOp),
			time.Duration(r.nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatBool(r.skipped),
			strconv.Itoa(benchSize),
			strconv.Itoa(benchNumThreads),
			strconv.Itoa(benchRounds),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %w", r.test, err)
		}
	}

	return nil
}
