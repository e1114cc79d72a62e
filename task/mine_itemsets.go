package task

import (
	"time"

	"fpmine/config"
	"fpmine/fptree"
	"fpmine/metrics"

	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
)

// MiningResult is the output of one mining run. Callers must not modify it.
type MiningResult struct {
	RunID     string
	TreeNodes int
	Itemsets  *fptree.FrequentItemsets
	Rules     []fptree.Rule
}

// MineItemsetsAndRules builds the tree of trns, mines its frequent itemsets
// and derives the ranked association rules, using cfg or, when nil, the
// process wide configuration.
func MineItemsetsAndRules(trns []fptree.Transaction, cfg *config.Configuration) (*MiningResult, error) {
	if cfg == nil {
		cfg = config.GetConfig()
	}
	if cfg == nil {
		defaults := config.DefaultConfiguration()
		cfg = &defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := xid.New().String()
	logCtx := log.WithFields(log.Fields{
		"run_id":       runID,
		"transactions": len(trns),
		"min_support":  cfg.MinSupport,
	})
	metrics.Register()
	metrics.Increment(metrics.IncrMineRuns)

	startTime := time.Now()
	tree, err := fptree.BuildTree(trns, cfg.MinSupport)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build fp tree.")
		return nil, err
	}
	metrics.RecordLatency(metrics.LatencyTreeBuild, millisecondsSince(startTime))
	metrics.CountInt(metrics.CountTreeNodes, int64(tree.NodeCount()))

	startTime = time.Now()
	itemsets := fptree.Mine(tree)
	metrics.RecordLatency(metrics.LatencyMine, millisecondsSince(startTime))
	metrics.CountInt(metrics.CountFrequentItemset, int64(itemsets.Len()))

	rules := make([]fptree.Rule, 0)
	if itemsets.Len() > 0 {
		generator, err := cfg.RuleGenerator(tree.Transactions())
		if err != nil {
			return nil, err
		}
		startTime = time.Now()
		rules, err = itemsets.Rules(generator)
		if err != nil {
			logCtx.WithError(err).Error("Failed to generate rules.")
			return nil, err
		}
		metrics.RecordLatency(metrics.LatencyRuleGeneration, millisecondsSince(startTime))
	}
	metrics.CountInt(metrics.CountRules, int64(len(rules)))

	logCtx.WithFields(log.Fields{
		"distinct_items": len(tree.Dictionary().ItemSupport()),
		"frequent_items": itemsets.Dictionary().Len(),
		"tree_nodes":     tree.NodeCount(),
		"itemsets":       itemsets.Len(),
		"rules":          len(rules),
	}).Info("Mined frequent itemsets and rules.")

	return &MiningResult{
		RunID:     runID,
		TreeNodes: tree.NodeCount(),
		Itemsets:  itemsets,
		Rules:     rules,
	}, nil
}

func millisecondsSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
