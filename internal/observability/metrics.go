package observability

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics records per-operation outcomes and latency plus the documents each
// seeding run writes. It renders the Prometheus text format on demand.
type Metrics struct {
	operations *family
	latency    *family
	documents  *family
}

var (
	metricsOnce sync.Once
	current     *Metrics
)

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

func NewMetrics() *Metrics {
	return &Metrics{
		operations: newFamily("eduhub_operations_total", "Store operations by outcome.", kindCounter, nil, "op", "status"),
		latency:    newFamily("eduhub_operation_duration_seconds", "Store operation latency.", kindHistogram, latencyBuckets, "op"),
		documents:  newFamily("eduhub_documents_written_total", "Documents written by collection.", kindCounter, nil, "collection"),
	}
}

// Current returns the process-wide registry.
func Current() *Metrics {
	metricsOnce.Do(func() { current = NewMetrics() })
	return current
}

func (m *Metrics) ObserveOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.operations.add(1, op, status)
	m.latency.add(dur.Seconds(), op)
}

func (m *Metrics) AddDocuments(collection string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.documents.add(float64(n), collection)
}

// OperationCount returns how many times op finished with status.
func (m *Metrics) OperationCount(op, status string) float64 {
	if m == nil {
		return 0
	}
	return m.operations.value(op, status)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	for _, f := range []*family{m.operations, m.latency, m.documents} {
		f.render(bw)
	}
	return bw.Flush()
}

// WriteFile dumps the registry to path in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WritePrometheus(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type metricKind string

const (
	kindCounter   metricKind = "counter"
	kindHistogram metricKind = "histogram"
)

// family is one metric name with its labelled series. Counters only use
// sum; histograms also track per-bucket counts.
type family struct {
	name    string
	help    string
	kind    metricKind
	labels  []string
	buckets []float64

	mu     sync.Mutex
	series map[string]*series
}

type series struct {
	labels string
	sum    float64
	count  uint64
	hits   []uint64
}

func newFamily(name, help string, kind metricKind, buckets []float64, labels ...string) *family {
	return &family{
		name:    name,
		help:    help,
		kind:    kind,
		labels:  labels,
		buckets: buckets,
		series:  map[string]*series{},
	}
}

func (f *family) add(v float64, values ...string) {
	key := f.labelSet(values)
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.series[key]
	if !ok {
		s = &series{labels: key, hits: make([]uint64, len(f.buckets))}
		f.series[key] = s
	}
	s.sum += v
	s.count++
	for i, upper := range f.buckets {
		if v <= upper {
			s.hits[i]++
		}
	}
}

func (f *family) value(values ...string) float64 {
	key := f.labelSet(values)
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.series[key]; ok {
		return s.sum
	}
	return 0
}

// labelSet renders values as `{a="x",b="y"}`; missing values read "unknown".
func (f *family) labelSet(values []string) string {
	pairs := make([]string, len(f.labels))
	for i, name := range f.labels {
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		pairs[i] = name + "=" + strconv.Quote(val)
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func (f *family) render(w *bufio.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", f.name, f.help, f.name, f.kind)

	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.series))
	for k := range f.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s := f.series[k]
		if f.kind == kindCounter {
			fmt.Fprintf(w, "%s%s %g\n", f.name, s.labels, s.sum)
			continue
		}
		for i, upper := range f.buckets {
			fmt.Fprintf(w, "%s_bucket%s %d\n", f.name, withBound(s.labels, strconv.FormatFloat(upper, 'g', -1, 64)), s.hits[i])
		}
		fmt.Fprintf(w, "%s_bucket%s %d\n", f.name, withBound(s.labels, "+Inf"), s.count)
		fmt.Fprintf(w, "%s_sum%s %g\n", f.name, s.labels, s.sum)
		fmt.Fprintf(w, "%s_count%s %d\n", f.name, s.labels, s.count)
	}
}

func withBound(labels, le string) string {
	bound := `le="` + le + `"`
	if labels == "{}" {
		return "{" + bound + "}"
	}
	return strings.TrimSuffix(labels, "}") + "," + bound + "}"
}
