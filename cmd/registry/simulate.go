package registry

import (
	"fmt"

	libregistry "github.com/ValentinKolb/dColl/lib/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Register entries for several modules and print the teardown order",
	Long: `Builds a registry with entries owned by several modules (plus entries owned
by no module), releases the selected modules and closes the registry. Every
hook call is printed in the order it happened.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		config := getSimConfig()
		fmt.Println("Configuration:")
		fmt.Println(config.String())

		t, err := simulate(libregistry.New(libregistry.WithName("simulate")), config)
		if err != nil {
			return err
		}
		for i, line := range t.lines {
			fmt.Printf("%3d  %s\n", i+1, line)
		}
		return nil
	},
}

// --------------------------------------------------------------------------
// Simulation
// --------------------------------------------------------------------------

// simConfig describes the registry content of a simulation run
type simConfig struct {
	Modules         int
	Entries         int
	Global          int
	ReferencedEvery int
	Release         []string
	Singletons      bool
}

func getSimConfig() simConfig {
	return simConfig{
		Modules:         viper.GetInt("modules"),
		Entries:         viper.GetInt("entries"),
		Global:          viper.GetInt("global"),
		ReferencedEvery: viper.GetInt("referenced-every"),
		Release:         viper.GetStringSlice("release"),
		Singletons:      viper.GetBool("singletons"),
	}
}

func (c simConfig) String() string {
	return fmt.Sprintf("  modules: %d, entries per module: %d, global entries: %d\n  referenced every: %d, release: %v, singletons: %t",
		c.Modules, c.Entries, c.Global, c.ReferencedEvery, c.Release, c.Singletons)
}

// trace collects the events of a simulation run
type trace struct {
	lines []string
}

func (t *trace) add(format string, args ...interface{}) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// simEntry is a registry entry that reports its hooks to a trace
type simEntry struct {
	libregistry.Base
	name       string
	referenced bool
	trace      *trace
}

func (e *simEntry) IsReferenced() bool { return e.referenced }

func (e *simEntry) ReleaseModuleChildren(m *libregistry.Module) {
	e.trace.add("notify   %s (module %s is released)", e.name, m)
}

func (e *simEntry) Destroy() {
	e.trace.add("destroy  %s", e.name)
}

// settings and pool are singletons; creating the pool needs the settings
type settings struct{ simEntry }

type pool struct {
	simEntry
	settings *settings
}

// simulate fills r according to config, releases the configured modules and
// closes r. The returned trace lists registrations and hook calls in order.
func simulate(r *libregistry.Registry, config simConfig) (*trace, error) {
	t := &trace{}
	count := 0

	register := func(name string, owner *libregistry.Module) {
		count++
		e := &simEntry{
			Base:       libregistry.Base{Owner: owner},
			name:       name,
			referenced: config.ReferencedEvery > 0 && count%config.ReferencedEvery == 0,
			trace:      t,
		}
		if !r.Register(e) {
			t.add("rejected %s", name)
			return
		}
		if e.referenced {
			t.add("register %s (module %s, referenced)", name, owner)
		} else {
			t.add("register %s (module %s)", name, owner)
		}
	}

	modules := make(map[string]*libregistry.Module, config.Modules)
	ordered := make([]*libregistry.Module, 0, config.Modules)
	for i := 1; i <= config.Modules; i++ {
		m := libregistry.NewModule(fmt.Sprintf("module-%d", i))
		modules[m.Name()] = m
		ordered = append(ordered, m)
	}

	for i := 1; i <= config.Global; i++ {
		register(fmt.Sprintf("global-%d", i), nil)
	}

	if config.Singletons {
		libregistry.GetOrCreate(r, func() *pool {
			s := libregistry.GetOrCreate(r, func() *settings {
				t.add("create   settings")
				return &settings{simEntry{name: "settings", trace: t}}
			})
			t.add("create   pool (uses settings)")
			return &pool{simEntry: simEntry{name: "pool", trace: t}, settings: s}
		})
	}

	for i := 1; i <= config.Entries; i++ {
		for _, m := range ordered {
			register(fmt.Sprintf("%s/entry-%d", m.Name(), i), m)
		}
	}

	for _, name := range config.Release {
		if name == "" {
			continue
		}
		m, ok := modules[name]
		if !ok {
			return nil, fmt.Errorf("unknown module %q (have %d modules)", name, len(modules))
		}
		t.add("-- release %s", name)
		r.ReleaseModule(m)
	}

	t.add("-- close")
	r.Close()
	return t, nil
}
