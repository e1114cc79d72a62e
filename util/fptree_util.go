package util

import (
	mapset "github.com/deckarep/golang-set"
	"golang.org/x/exp/slices"
)

type kv[K comparable] struct {
	Key   K
	Value int
}

// SortOnPriorityTable orders the keys of pq by value. Keys with equal value
// keep the order given in firstSeen; keys missing from firstSeen are dropped.
func SortOnPriorityTable[K comparable](firstSeen []K, pq map[K]int, ascending bool) []K {
	ll := make([]K, 0, len(pq))
	for _, k := range firstSeen {
		if _, ok := pq[k]; ok {
			ll = append(ll, k)
		}
	}
	return SortOnPriority(ll, pq, ascending)
}

// SortOnPriority sorts ll on the values in pq, highest first unless ascending
// is set. The sort is stable so ties keep their position in ll.
func SortOnPriority[K comparable](ll []K, pq map[K]int, ascending bool) []K {
	ss := make([]kv[K], 0, len(ll))
	for _, k := range ll {
		ss = append(ss, kv[K]{k, pq[k]})
	}

	slices.SortStableFunc(ss, func(a, b kv[K]) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})

	res := make([]K, 0, len(ss))
	if !ascending {
		for _, e := range ss {
			res = append(res, e.Key)
		}
	} else {
		for i := len(ss) - 1; i >= 0; i-- {
			res = append(res, ss[i].Key)
		}
	}
	return res
}

// FilterOnPriority keeps the keys of ll whose value in pq reaches min.
func FilterOnPriority[K comparable](ll []K, pq map[K]int, min int) []K {
	res := make([]K, 0, len(ll))
	for _, k := range ll {
		if v, ok := pq[k]; ok && v >= min {
			res = append(res, k)
		}
	}
	return res
}


func CheckUniqueTrans(trns []string) bool {
	seen := mapset.NewThreadUnsafeSet()
	for _, tr := range trns {
		if !seen.Add(tr) {
			return false
		}
	}
	return true
}

// MakeUniqueTrans drops repeated items, keeping the first occurrence of each.
func MakeUniqueTrans(trns []string) []string {
	if CheckUniqueTrans(trns) {
		return trns
	}
	seen := mapset.NewThreadUnsafeSet()
	trnsSet := make([]string, 0, len(trns))
	for _, tr := range trns {
		if seen.Add(tr) {
			trnsSet = append(trnsSet, tr)
		}
	}
	return trnsSet
}
