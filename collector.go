package skiplist

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a SkipListMap's size, height and contention counters
// as prometheus metrics. Register it with a prometheus.Registerer:
//
//	prometheus.MustRegister(skiplist.NewCollector("index", m))
type Collector struct {
	metrics *Metrics
	levels  func() int

	length          *prometheus.Desc
	height          *prometheus.Desc
	insertRetries   *prometheus.Desc
	insertSuccesses *prometheus.Desc
	deleteRetries   *prometheus.Desc
}

// NewCollector returns a Collector for m. The name label distinguishes
// multiple lists registered in the same registry.
func NewCollector[K comparable, V any](name string, m *SkipListMap[K, V]) *Collector {
	labels := prometheus.Labels{"list": name}
	return &Collector{
		metrics: m.Metrics(),
		levels:  m.Levels,
		length: prometheus.NewDesc(
			"skiplist_length", "Number of live keys in the skip list.", nil, labels),
		height: prometheus.NewDesc(
			"skiplist_height", "Highest level currently in use.", nil, labels),
		insertRetries: prometheus.NewDesc(
			"skiplist_insert_retries_total", "Insert validation retries caused by stale traversals.", nil, labels),
		insertSuccesses: prometheus.NewDesc(
			"skiplist_insert_successes_total", "Committed insertions.", nil, labels),
		deleteRetries: prometheus.NewDesc(
			"skiplist_delete_retries_total", "Delete validation retries caused by stale traversals.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.length
	ch <- c.height
	ch <- c.insertRetries
	ch <- c.insertSuccesses
	ch <- c.deleteRetries
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	retries, successes := c.metrics.InsertStats()
	ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(c.metrics.Len()))
	ch <- prometheus.MustNewConstMetric(c.height, prometheus.GaugeValue, float64(c.levels()))
	ch <- prometheus.MustNewConstMetric(c.insertRetries, prometheus.CounterValue, float64(retries))
	ch <- prometheus.MustNewConstMetric(c.insertSuccesses, prometheus.CounterValue, float64(successes))
	ch <- prometheus.MustNewConstMetric(c.deleteRetries, prometheus.CounterValue, float64(c.metrics.DeleteRetries()))
}
