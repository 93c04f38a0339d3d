package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a Recorder in the Prometheus exposition format. Values
// are read from the recorder on every scrape, so /metrics and the stats
// endpoint never disagree.
type Collector struct {
	recorder *Recorder

	requests       *prometheus.Desc
	processingTime *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for recorder
func NewCollector(recorder *Recorder) *Collector {
	return &Collector{
		recorder: recorder,
		requests: prometheus.NewDesc(
			"iopaint_requests_total",
			"Watermark removal requests by outcome.",
			[]string{"outcome"}, nil,
		),
		processingTime: prometheus.NewDesc(
			"iopaint_processing_seconds_total",
			"Summed end-to-end processing time of successful requests.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requests
	ch <- c.processingTime
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.recorder.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(s.SuccessfulRequests), "success")
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(s.FailedRequests), "failed")
	ch <- prometheus.MustNewConstMetric(c.processingTime, prometheus.CounterValue, s.TotalProcessingTime.Seconds())
}
