package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WardOccupancy is the per-ward snapshot reported to the collector.
type WardOccupancy struct {
	Tenant    string
	WardName  string
	Capacity  int
	Occupied  int
	Available int
}

// OccupancySource supplies occupancy snapshots at scrape time.
type OccupancySource interface {
	OccupancySnapshot(ctx context.Context) ([]WardOccupancy, error)
}

type occupancyCollector struct {
	source OccupancySource

	capacity  *prometheus.Desc
	occupied  *prometheus.Desc
	available *prometheus.Desc
}

func newOccupancyCollector(source OccupancySource) *occupancyCollector {
	labels := []string{"tenant", "ward"}
	return &occupancyCollector{
		source:    source,
		capacity:  prometheus.NewDesc("hms_ward_capacity_beds", "Configured bed capacity per ward.", labels, nil),
		occupied:  prometheus.NewDesc("hms_ward_occupied_beds", "Occupied beds per ward.", labels, nil),
		available: prometheus.NewDesc("hms_ward_available_beds", "Available beds per ward.", labels, nil),
	}
}

func (c *occupancyCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.occupied
	ch <- c.available
}

func (c *occupancyCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshots, err := c.source.OccupancySnapshot(ctx)
	if err != nil {
		// A failed scrape is reported as an invalid metric rather than a panic.
		ch <- prometheus.NewInvalidMetric(c.occupied, err)
		return
	}

	for _, s := range snapshots {
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity), s.Tenant, s.WardName)
		ch <- prometheus.MustNewConstMetric(c.occupied, prometheus.GaugeValue, float64(s.Occupied), s.Tenant, s.WardName)
		ch <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(s.Available), s.Tenant, s.WardName)
	}
}
