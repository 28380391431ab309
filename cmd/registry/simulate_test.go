package registry

import (
	"strings"
	"testing"

	libregistry "github.com/ValentinKolb/dColl/lib/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hookLines returns the notify and destroy lines of a trace
func hookLines(t *trace) []string {
	var out []string
	for _, line := range t.lines {
		if strings.HasPrefix(line, "notify") || strings.HasPrefix(line, "destroy") {
			out = append(out, line)
		}
	}
	return out
}

func TestSimulateTeardownOrder(t *testing.T) {
	tr, err := simulate(libregistry.New(), simConfig{
		Modules:    2,
		Entries:    1,
		Global:     1,
		Release:    []string{"module-1"},
		Singletons: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		// module-1 released: every other entry is notified, most recent first
		"notify   module-2/entry-1 (module module-1 is released)",
		"notify   pool (module module-1 is released)",
		"notify   settings (module module-1 is released)",
		"notify   global-1 (module module-1 is released)",
		"destroy  module-1/entry-1",
		// close: the rest in reverse registration order
		"destroy  module-2/entry-1",
		"destroy  pool",
		"destroy  settings",
		"destroy  global-1",
	}, hookLines(tr))
}

func TestSimulateReferencedEntries(t *testing.T) {
	tr, err := simulate(libregistry.New(), simConfig{
		Global:          4,
		ReferencedEvery: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"destroy  global-3", "destroy  global-1"}, hookLines(tr))
}

func TestSimulateUnknownModule(t *testing.T) {
	_, err := simulate(libregistry.New(), simConfig{Modules: 1, Release: []string{"module-7"}})
	assert.Error(t, err)
}
