package metrics

import (
	"github.com/fzft/go-intset/db"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "intset"

	// SetLabel names the set a sample describes.
	SetLabel = "set"
	// CommandLabel names the command a sample describes.
	CommandLabel = "command"
)

// CommandStats counts the executions of one command.
type CommandStats struct {
	Calls    int64
	Failures int64
}

// Source hands out consistent snapshots of set statistics keyed by set
// name and of command counters keyed by command name. Implementations take
// whatever lock guards their sets.
type Source interface {
	SetStats() map[string]db.Stats
	CommandStats() map[string]CommandStats
	// Dirty returns the number of successful write commands.
	Dirty() uint64
}

var (
	sizeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "set", "size"),
		"Number of keys held by the set.",
		[]string{SetLabel}, nil)
	capacityDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "set", "capacity"),
		"Number of slots in the backing array of the set.",
		[]string{SetLabel}, nil)
	tombstonesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "set", "tombstones"),
		"Deleted slots waiting for the next rebuild.",
		[]string{SetLabel}, nil)
	growthsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "set", "growths_total"),
		"Rebuilds that moved the set into a larger array.",
		[]string{SetLabel}, nil)
	compactionsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "set", "compactions_total"),
		"Rebuilds that purged tombstones.",
		[]string{SetLabel}, nil)

	commandsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "commands_total"),
		"Commands executed, failed ones included.",
		[]string{CommandLabel}, nil)
	commandFailuresDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "command_failures_total"),
		"Commands that replied with an error.",
		[]string{CommandLabel}, nil)
	writeCommandsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "write_commands_total"),
		"Write commands that succeeded.",
		nil, nil)
)

// SetCollector exports the statistics of every set a Source knows about,
// together with its command counters.
type SetCollector struct {
	src Source
}

// NewSetCollector returns a collector reading from src on every scrape.
func NewSetCollector(src Source) *SetCollector {
	return &SetCollector{src: src}
}

func (c *SetCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- sizeDesc
	ch <- capacityDesc
	ch <- tombstonesDesc
	ch <- growthsDesc
	ch <- compactionsDesc
	ch <- commandsDesc
	ch <- commandFailuresDesc
	ch <- writeCommandsDesc
}

func (c *SetCollector) Collect(ch chan<- prometheus.Metric) {
	for name, st := range c.src.SetStats() {
		ch <- prometheus.MustNewConstMetric(sizeDesc, prometheus.GaugeValue, float64(st.Size), name)
		ch <- prometheus.MustNewConstMetric(capacityDesc, prometheus.GaugeValue, float64(st.Capacity), name)
		ch <- prometheus.MustNewConstMetric(tombstonesDesc, prometheus.GaugeValue, float64(st.Deleted), name)
		ch <- prometheus.MustNewConstMetric(growthsDesc, prometheus.CounterValue, float64(st.Growths), name)
		ch <- prometheus.MustNewConstMetric(compactionsDesc, prometheus.CounterValue, float64(st.Compactions), name)
	}
	for name, st := range c.src.CommandStats() {
		ch <- prometheus.MustNewConstMetric(commandsDesc, prometheus.CounterValue, float64(st.Calls), name)
		ch <- prometheus.MustNewConstMetric(commandFailuresDesc, prometheus.CounterValue, float64(st.Failures), name)
	}
	ch <- prometheus.MustNewConstMetric(writeCommandsDesc, prometheus.CounterValue, float64(c.src.Dirty()))
}

// NewUsedMemoryGauge reports the bytes held by every set backing array in
// the process.
func NewUsedMemoryGauge() prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "used_memory_bytes",
		Help:      "Bytes held by the backing arrays of all sets.",
	}, func() float64 {
		return float64(db.UsedMemory())
	})
}

// NewRegistry returns a registry carrying the set collector for src and the
// used memory gauge.
func NewRegistry(src Source) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewSetCollector(src), NewUsedMemoryGauge())
	return reg
}
