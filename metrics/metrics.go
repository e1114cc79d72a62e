package metrics

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// All tracked metrics are to be added here.
// UnitType of the metric i.e. Incr / Count / Latency must be prefixed with each metric name.
const (
	LatencyTreeBuild      = "tree_build_latency"
	LatencyMine           = "mine_latency"
	LatencyRuleGeneration = "rule_generation_latency"

	CountTreeNodes       = "tree_nodes_count"
	CountFrequentItemset = "frequent_itemset_count"
	CountRules           = "rules_count"

	IncrRuleLookupMiss = "rule_lookup_miss_incr"
	IncrMineRuns       = "mine_runs_incr"
)

var (
	// The task latency in milliseconds.
	latencyStats  = stats.Float64("task_latency", "The task latency in milliseconds", stats.UnitMilliseconds)
	guageStatsInt = stats.Int64("int_counter", "Counts reported by mining runs", stats.UnitDimensionless)
)

var (
	// MetricNameTag Label for the metric to be updated. To be used in filter.
	MetricNameTag, _ = tag.NewKey("metric_name")
)

const (
	LatencyViewName  = "latency_view"
	CountIntViewName = "count_int_view"
)

var (
	latencyView = &view.View{
		Name:        LatencyViewName,
		Measure:     latencyStats,
		Description: "The distribution of the task latencies",
		// [>=0ms, >=10ms, >=100ms, >=400ms, >=1s, >=4s, >=16s]
		Aggregation: view.Distribution(0, 10, 100, 400, 1000, 4000, 16000),
		TagKeys:     []tag.Key{MetricNameTag},
	}

	countIntView = &view.View{
		Measure:     guageStatsInt,
		Name:        CountIntViewName,
		Description: "Count int view",
		Aggregation: view.Sum(),
		TagKeys:     []tag.Key{MetricNameTag},
	}
)

var registerOnce sync.Once

// Register makes the views available to exporters and to view.RetrieveData.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		if err := view.Register(latencyView, countIntView); err != nil {
			log.WithError(err).Error("Failed to register the view")
		}
	})
}

// Increment Increment the given metric by 1.
func Increment(metricName string) {
	CountInt(metricName, int64(1))
}

// CountInt Reports the count value for given int Metric.
func CountInt(metricName string, count int64) {
	ctx, err := tag.New(context.Background(), tag.Upsert(MetricNameTag, metricName))
	if err != nil {
		log.WithError(err).Error("Failed to record CountInt")
		return
	}
	stats.Record(ctx, guageStatsInt.M(count))
}

// RecordLatency Records latency as a metric in 'ms'.
func RecordLatency(metricName string, latency float64) {
	ctx, err := tag.New(context.Background(), tag.Upsert(MetricNameTag, metricName))
	if err != nil {
		log.WithError(err).Error("Failed to record Latency")
		return
	}
	stats.Record(ctx, latencyStats.M(latency))
}
