// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// StatsCollector is a prometheus.Collector exposing a Diagram's current
// size as gauges, so a host application can register it alongside its own
// metrics instead of polling Diagram.Stats manually (spec.md §6 treats
// metrics emission as an external collaborator's concern).
type StatsCollector struct {
	diagram   *Diagram
	nodeCount *prometheus.Desc
	topRow    *prometheus.Desc
	rowSize   *prometheus.Desc
}

// NewStatsCollector wraps d, labeling every exported metric with name
// (e.g. which diagram instance this is, when a process holds several).
func NewStatsCollector(d *Diagram, name string) *StatsCollector {
	labels := prometheus.Labels{"diagram": name}
	return &StatsCollector{
		diagram: d,
		nodeCount: prometheus.NewDesc(
			"tdzdd_node_count", "Total number of live nodes in the diagram.",
			nil, labels),
		topRow: prometheus.NewDesc(
			"tdzdd_top_row", "Highest row currently allocated in the diagram.",
			nil, labels),
		rowSize: prometheus.NewDesc(
			"tdzdd_row_size", "Number of live nodes at a given row.",
			[]string{"row"}, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodeCount
	ch <- c.topRow
	ch <- c.rowSize
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.diagram.Stats()
	ch <- prometheus.MustNewConstMetric(c.nodeCount, prometheus.GaugeValue, float64(stats.NodeCount))
	ch <- prometheus.MustNewConstMetric(c.topRow, prometheus.GaugeValue, float64(stats.TopRow))
	for i, size := range stats.RowSizes {
		row := i + 1
		ch <- prometheus.MustNewConstMetric(c.rowSize, prometheus.GaugeValue, float64(size), strconv.Itoa(row))
	}
}
