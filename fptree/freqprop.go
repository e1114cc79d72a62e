package fptree

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// ItemsetCount is one frequent itemset with its items in canonical order.
type ItemsetCount struct {
	Items   []string `json:"fi"`
	Support int      `json:"fc"`
}

// FrequentItemsets is the result of Mine. It is read-only once returned.
type FrequentItemsets struct {
	dict     *Dictionary
	supports map[string]int
	itemsets []Itemset
}

func newFrequentItemsets(dict *Dictionary) *FrequentItemsets {
	return &FrequentItemsets{
		dict:     dict,
		supports: make(map[string]int),
		itemsets: make([]Itemset, 0),
	}
}

func (fi *FrequentItemsets) add(s Itemset, support int) {
	k := s.key()
	if _, ok := fi.supports[k]; ok {
		log.WithField("itemset", fi.dict.Join(s)).Error("Itemset mined twice.")
		return
	}
	fi.supports[k] = support
	fi.itemsets = append(fi.itemsets, s)
}

func (fi *FrequentItemsets) Len() int {
	return len(fi.itemsets)
}

func (fi *FrequentItemsets) Dictionary() *Dictionary {
	return fi.dict
}

// Transactions returns the summed weight of the mined dataset.
func (fi *FrequentItemsets) Transactions() int {
	return fi.dict.transactions
}

// ItemSupport returns the global support of every item of the dataset.
func (fi *FrequentItemsets) ItemSupport() map[string]int {
	return fi.dict.ItemSupport()
}

// Support looks up the support of the itemset made of names, in any order.
func (fi *FrequentItemsets) Support(names ...string) (int, bool) {
	if len(names) == 0 {
		return 0, false
	}
	s, ok := fi.dict.Itemset(names)
	if !ok {
		return 0, false
	}
	support, ok := fi.supports[s.key()]
	return support, ok
}

// Key returns the canonical key of names, whether or not the itemset is frequent.
func (fi *FrequentItemsets) Key(names ...string) (string, bool) {
	return fi.dict.CanonicalKey(names)
}

// Map returns canonical itemset keys mapped to their support.
func (fi *FrequentItemsets) Map() map[string]int {
	res := make(map[string]int, len(fi.itemsets))
	for _, s := range fi.itemsets {
		res[fi.dict.Join(s)] = fi.supports[s.key()]
	}
	return res
}

// Itemsets lists every frequent itemset, highest support first, then
// shorter itemsets, then canonical order.
func (fi *FrequentItemsets) Itemsets() []ItemsetCount {
	return fi.rank(fi.itemsets)
}

// TopK returns the k itemsets of highest support.
func (fi *FrequentItemsets) TopK(k int) []ItemsetCount {
	return topK(fi.Itemsets(), k)
}

// TopKContaining returns the k itemsets of highest support among those
// holding every item of names.
func (fi *FrequentItemsets) TopKContaining(names []string, k int) []ItemsetCount {
	filter, ok := fi.dict.Itemset(names)
	if !ok {
		return []ItemsetCount{}
	}
	selected := make([]Itemset, 0)
	for _, s := range fi.itemsets {
		toBeAdded := true
		for _, id := range filter {
			if !s.Contains(id) {
				toBeAdded = false
				break
			}
		}
		if toBeAdded {
			selected = append(selected, s)
		}
	}
	return topK(fi.rank(selected), k)
}

// Rules derives the association rules of the itemsets. When g normalizes
// lift by transactions and carries no count, the mined dataset's is used.
func (fi *FrequentItemsets) Rules(g RuleGenerator) ([]Rule, error) {
	if g.Normalizer == NormalizeByTransactions && g.Transactions == 0 {
		g.Transactions = fi.Transactions()
	}
	return g.Generate(fi.Map(), fi.ItemSupport())
}

func (fi *FrequentItemsets) rank(sets []Itemset) []ItemsetCount {
	ranked := slices.Clone(sets)
	slices.SortStableFunc(ranked, func(a, b Itemset) int {
		sa, sb := fi.supports[a.key()], fi.supports[b.key()]
		if sa != sb {
			return sb - sa
		}
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return slices.Compare(a, b)
	})
	res := make([]ItemsetCount, 0, len(ranked))
	for _, s := range ranked {
		res = append(res, ItemsetCount{Items: fi.dict.Names(s), Support: fi.supports[s.key()]})
	}
	return res
}

func topK(ranked []ItemsetCount, k int) []ItemsetCount {
	if k < 0 {
		k = 0
	}
	if len(ranked) < k {
		k = len(ranked)
	}
	return ranked[:k]
}
