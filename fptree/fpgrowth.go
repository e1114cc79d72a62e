package fptree

import (
	log "github.com/sirupsen/logrus"
)

// Mine returns every itemset of the tree whose support reaches the tree's
// minimum support.
func Mine(t *Tree) *FrequentItemsets {
	fis := newFrequentItemsets(t.dict)
	mineTree(t, nil, fis)
	log.Debugf("Mined %d frequent itemsets from %d frequent items.", fis.Len(), len(t.freqItems))
	return fis
}

// mineTree records suffix extended with each frequent item of tr, least
// frequent first, then recurses into that item's conditional tree. Every
// count in tr already co-occurs with the whole suffix.
func mineTree(tr *Tree, suffix Itemset, container *FrequentItemsets) {
	for idx := len(tr.freqItems) - 1; idx >= 0; idx-- {
		itm := tr.freqItems[idx]
		base := suffix.With(itm)
		container.add(base, tr.countMap[itm])

		cTr := tr.conditionalTree(itm)
		if !cTr.IsEmpty() {
			mineTree(cTr, base, container)
		}
	}
}
