package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	models "mediafolders/internal/domain/models/mediafolders"
	svc "mediafolders/internal/domain/services/mediafolders"
)

const namespace = "mediafolders"

// Metrics owns the process registry and the collectors the server updates
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	bulkProcessed   *prometheus.CounterVec
}

// New creates a registry with Go runtime, process and HTTP collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bulkProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_assigned_attachments_total",
			Help:      "Attachments processed by bulk assignment, by mode.",
		}, []string{"mode"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.bulkProcessed,
	)
	return m
}

// Registry exposes the registry for extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordBulkAssign counts attachments processed by a bulk assignment
func (m *Metrics) RecordBulkAssign(mode string, processed int) {
	if processed > 0 {
		m.bulkProcessed.WithLabelValues(mode).Add(float64(processed))
	}
}

// LibraryCollector reports folder and uncategorized gauges at scrape time.
// A successful read is reused for cacheTTL, so repeated scrapes of the public
// /metrics endpoint cost at most one tree read per interval.
type LibraryCollector struct {
	tree     svc.TreeService
	timeout  time.Duration
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time

	folders       *prometheus.Desc
	uncategorized *prometheus.Desc

	mu       sync.Mutex
	cachedAt time.Time
	cached   libraryCounts
}

type libraryCounts struct {
	folders       int
	uncategorized int
}

// NewLibraryCollector creates a collector reading live counts from the tree service
func NewLibraryCollector(tree svc.TreeService, timeout, cacheTTL time.Duration, logger *slog.Logger) *LibraryCollector {
	return &LibraryCollector{
		tree:     tree,
		timeout:  timeout,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
		folders: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "folders"),
			"Number of media folders.", nil, nil),
		uncategorized: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uncategorized_attachments"),
			"Number of inherit-status attachments without a folder.", nil, nil),
	}
}

// Describe implements prometheus.Collector
func (c *LibraryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.folders
	ch <- c.uncategorized
}

// Collect implements prometheus.Collector. A failed read drops both gauges for this scrape.
func (c *LibraryCollector) Collect(ch chan<- prometheus.Metric) {
	counts, ok := c.counts()
	if !ok {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.folders, prometheus.GaugeValue, float64(counts.folders))
	ch <- prometheus.MustNewConstMetric(c.uncategorized, prometheus.GaugeValue, float64(counts.uncategorized))
}

// counts returns the cached counts while fresh, reading the tree otherwise.
// Concurrent scrapes wait on the lock instead of each reading the tree.
func (c *LibraryCollector) counts() (libraryCounts, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.cachedAt.IsZero() && now.Sub(c.cachedAt) < c.cacheTTL {
		return c.cached, true
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := c.tree.GetFolderData(ctx)
	if err != nil {
		c.logger.Warn("library metrics unavailable", "error", err)
		return libraryCounts{}, false
	}

	c.cached = libraryCounts{
		folders:       countNodes(data.Folders),
		uncategorized: data.UncategorizedCount,
	}
	c.cachedAt = now
	return c.cached, true
}

func countNodes(nodes []*models.FolderTreeNode) int {
	n := 0
	for _, node := range nodes {
		n += 1 + countNodes(node.Children)
	}
	return n
}
