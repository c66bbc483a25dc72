package metrics

import (
	"strings"
	"testing"

	"github.com/fzft/go-intset/db"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	sets     map[string]db.Stats
	commands map[string]CommandStats
	dirty    uint64
}

func (s staticSource) SetStats() map[string]db.Stats {
	return s.sets
}

func (s staticSource) CommandStats() map[string]CommandStats {
	return s.commands
}

func (s staticSource) Dirty() uint64 {
	return s.dirty
}

func TestSetCollector(t *testing.T) {
	src := staticSource{
		sets: map[string]db.Stats{
			"a": {Size: 2, Capacity: 7, Deleted: 1, Growths: 2},
			"b": {Size: 0, Capacity: 3, Compactions: 1},
		},
	}
	c := NewSetCollector(src)

	assert.Equal(t, 11, testutil.CollectAndCount(c))
	assert.Equal(t, 2, testutil.CollectAndCount(c, "intset_set_size"))
	assert.Equal(t, 2, testutil.CollectAndCount(c, "intset_set_compactions_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(c, "intset_write_commands_total"))
}

func TestSetCollectorCommands(t *testing.T) {
	src := staticSource{
		commands: map[string]CommandStats{
			"add":    {Calls: 5, Failures: 2},
			"exists": {Calls: 3},
		},
		dirty: 3,
	}
	c := NewSetCollector(src)

	assert.Equal(t, 2, testutil.CollectAndCount(c, "intset_commands_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(c, "intset_command_failures_total"))

	expected := `
# HELP intset_command_failures_total Commands that replied with an error.
# TYPE intset_command_failures_total counter
intset_command_failures_total{command="add"} 2
intset_command_failures_total{command="exists"} 0
# HELP intset_commands_total Commands executed, failed ones included.
# TYPE intset_commands_total counter
intset_commands_total{command="add"} 5
intset_commands_total{command="exists"} 3
# HELP intset_write_commands_total Write commands that succeeded.
# TYPE intset_write_commands_total counter
intset_write_commands_total 3
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"intset_commands_total", "intset_command_failures_total", "intset_write_commands_total"))
}

func TestRegistryGathersLiveSet(t *testing.T) {
	s := db.NewIntSet[uint32]()
	require.NoError(t, s.InsertMany(1, 2, 3))
	reg := NewRegistry(staticSource{sets: map[string]db.Stats{"live": s.Stats()}})

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(3), values["intset_set_size"])
	assert.Equal(t, float64(7), values["intset_set_capacity"])
	assert.Equal(t, float64(2), values["intset_set_growths_total"])
	assert.GreaterOrEqual(t, values["intset_used_memory_bytes"], float64(28))
}

func TestUsedMemoryGauge(t *testing.T) {
	g := NewUsedMemoryGauge()
	assert.Equal(t, float64(db.UsedMemory()), testutil.ToFloat64(g))
}
