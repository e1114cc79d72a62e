package fptree

import (
	"fmt"
	"strings"

	"fpmine/metrics"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// LiftNormalizer selects the population the consequent's support is
// divided by when computing lift.
type LiftNormalizer int

const (
	// NormalizeByItems divides by the number of distinct items.
	NormalizeByItems LiftNormalizer = iota
	// NormalizeByTransactions divides by the number of transactions, which
	// gives the textbook lift.
	NormalizeByTransactions
)

func (n LiftNormalizer) String() string {
	switch n {
	case NormalizeByItems:
		return "items"
	case NormalizeByTransactions:
		return "transactions"
	}
	return fmt.Sprintf("LiftNormalizer(%d)", int(n))
}

func ParseLiftNormalizer(s string) (LiftNormalizer, error) {
	switch s {
	case "", "items":
		return NormalizeByItems, nil
	case "transactions":
		return NormalizeByTransactions, nil
	}
	return NormalizeByItems, errors.Wrapf(ErrInvalidInput, "unknown lift normalizer %q", s)
}

// subsets are enumerated on a uint64 mask.
const maxRuleItemsetLen = 62

// Rule reads "Antecedent implies Consequent". Both sides are disjoint and
// together form one frequent itemset whose support is Support.
type Rule struct {
	Antecedent []string `json:"ant"`
	Consequent []string `json:"con"`
	Support    int      `json:"sup"`
	Confidence float64  `json:"conf"`
	Lift       float64  `json:"lift"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s => %s (support %d, confidence %.3f, lift %.3f)",
		strings.Join(r.Antecedent, KeyDelimiter), strings.Join(r.Consequent, KeyDelimiter),
		r.Support, r.Confidence, r.Lift)
}

type RuleGenerator struct {
	MinConfidence float64
	MinLift       float64
	Normalizer    LiftNormalizer
	// Transactions is the population used by NormalizeByTransactions.
	Transactions int
	// Strict fails generation on a subset missing from the itemset map
	// instead of reading its support as 0.
	Strict bool
}

// GenerateRules returns the rules of itemsetSupport reaching both
// thresholds, with lift normalized by the number of items in itemSupport.
// It fails only on an itemset longer than 62 items, and then logs the error
// and returns no rules; use RuleGenerator.Generate to receive the error.
func GenerateRules(itemsetSupport, itemSupport map[string]int, minConfidence, minLift float64) []Rule {
	g := RuleGenerator{MinConfidence: minConfidence, MinLift: minLift}
	rules, err := g.Generate(itemsetSupport, itemSupport)
	if err != nil {
		log.WithError(err).Error("Failed to generate rules.")
		return []Rule{}
	}
	return rules
}

// Generate splits every itemset of two or more items into each
// antecedent/consequent pair and keeps the rules reaching the thresholds,
// ranked by lift, then confidence, then support.
func (g RuleGenerator) Generate(itemsetSupport, itemSupport map[string]int) ([]Rule, error) {
	normalizer := float64(len(itemSupport))
	if g.Normalizer == NormalizeByTransactions {
		if g.Transactions < 1 {
			return nil, errors.Wrapf(ErrInvalidInput, "lift by transactions needs a positive transaction count, got %d", g.Transactions)
		}
		normalizer = float64(g.Transactions)
	}

	keys := make([]string, 0, len(itemsetSupport))
	for k := range itemsetSupport {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rules := make([]Rule, 0)
	for _, key := range keys {
		items := strings.Split(key, KeyDelimiter)
		n := len(items)
		if n < 2 {
			continue
		}
		if n > maxRuleItemsetLen {
			return nil, errors.Wrapf(ErrInvalidInput, "itemset of %d items exceeds %d", n, maxRuleItemsetLen)
		}
		support := itemsetSupport[key]

		for mask := uint64(1); mask < uint64(1)<<n-1; mask++ {
			antecedent, consequent := splitItemset(items, mask)
			antSupport, err := g.lookup(itemsetSupport, antecedent)
			if err != nil {
				return nil, err
			}
			consSupport, err := g.lookup(itemsetSupport, consequent)
			if err != nil {
				return nil, err
			}

			var confidence, lift float64
			if antSupport > 0 {
				confidence = float64(support) / float64(antSupport)
			}
			if consSupport > 0 && normalizer > 0 {
				lift = confidence / (float64(consSupport) / normalizer)
			}
			if confidence < g.MinConfidence || lift < g.MinLift {
				continue
			}
			rules = append(rules, Rule{
				Antecedent: antecedent,
				Consequent: consequent,
				Support:    support,
				Confidence: confidence,
				Lift:       lift,
			})
		}
	}
	rankRules(rules)
	return rules, nil
}

// splitItemset keeps the items of key order on both sides; a subsequence
// of a canonical key is itself canonical.
func splitItemset(items []string, mask uint64) ([]string, []string) {
	antecedent := make([]string, 0, len(items))
	consequent := make([]string, 0, len(items))
	for idx, itm := range items {
		if mask&(uint64(1)<<idx) != 0 {
			antecedent = append(antecedent, itm)
		} else {
			consequent = append(consequent, itm)
		}
	}
	return antecedent, consequent
}

func (g RuleGenerator) lookup(itemsetSupport map[string]int, items []string) (int, error) {
	key := strings.Join(items, KeyDelimiter)
	support, ok := itemsetSupport[key]
	if ok {
		return support, nil
	}
	metrics.Increment(metrics.IncrRuleLookupMiss)
	log.WithField("itemset", key).Warn("Subset of a frequent itemset missing from itemset map.")
	if g.Strict {
		return 0, errors.Wrapf(ErrLookupMiss, "itemset %q", key)
	}
	return 0, nil
}

func rankRules(rules []Rule) {
	slices.SortStableFunc(rules, func(a, b Rule) int {
		if c := compareDesc(a.Lift, b.Lift); c != 0 {
			return c
		}
		if c := compareDesc(a.Confidence, b.Confidence); c != 0 {
			return c
		}
		if a.Support != b.Support {
			return b.Support - a.Support
		}
		if c := strings.Compare(strings.Join(a.Antecedent, KeyDelimiter), strings.Join(b.Antecedent, KeyDelimiter)); c != 0 {
			return c
		}
		return strings.Compare(strings.Join(a.Consequent, KeyDelimiter), strings.Join(b.Consequent, KeyDelimiter))
	})
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
