package fptree

import (
	"sort"
	"strings"
	"testing"

	U "fpmine/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedKey(items []string) string {
	s := append([]string(nil), items...)
	sort.Strings(s)
	return strings.Join(s, KeyDelimiter)
}

// bruteForceSupport counts every subset of every transaction.
func bruteForceSupport(trns []Transaction, minSupport int) map[string]int {
	counts := make(map[string]int)
	for _, tr := range trns {
		items := U.MakeUniqueTrans(tr.Items)
		for mask := 1; mask < 1<<len(items); mask++ {
			sub := make([]string, 0, len(items))
			for idx, itm := range items {
				if mask&(1<<idx) != 0 {
					sub = append(sub, itm)
				}
			}
			counts[sortedKey(sub)] += tr.Weight
		}
	}
	for k, v := range counts {
		if v < minSupport {
			delete(counts, k)
		}
	}
	return counts
}

func sortedMinedMap(fis *FrequentItemsets) map[string]int {
	res := make(map[string]int)
	for k, v := range fis.Map() {
		res[sortedKey(strings.Split(k, KeyDelimiter))] = v
	}
	return res
}

func mine(t *testing.T, trns []Transaction, minSupport int) *FrequentItemsets {
	tr, err := BuildTree(trns, minSupport)
	require.Nil(t, err)
	return Mine(tr)
}

func TestMineScenario(t *testing.T) {
	fis := mine(t, scenarioTransactions(), 2)
	assert.Equal(t, map[string]int{
		"a":   3,
		"b":   3,
		"c":   3,
		"a,b": 2,
		"b,c": 2,
	}, fis.Map())
	_, ok := fis.Support("a", "c")
	assert.False(t, ok)
}

func TestMineSingleItemTransactions(t *testing.T) {
	fis := mine(t, Transactions([][]string{{"x"}, {"x"}, {"x"}}), 2)
	assert.Equal(t, map[string]int{"x": 3}, fis.Map())
}

func TestMineEmpty(t *testing.T) {
	fis := mine(t, nil, 1)
	assert.Equal(t, 0, fis.Len())
	assert.Empty(t, fis.Map())
	assert.Empty(t, GenerateRules(fis.Map(), fis.ItemSupport(), 0, 0))
}

func TestMineThresholdBoundary(t *testing.T) {
	trns := Transactions([][]string{{"a", "b"}, {"a", "b"}, {"a"}, {"c"}})
	fis := mine(t, trns, 2)
	a, ok := fis.Support("a")
	assert.True(t, ok)
	assert.Equal(t, 3, a)
	ab, ok := fis.Support("b", "a")
	assert.True(t, ok)
	assert.Equal(t, 2, ab)
	_, ok = fis.Support("c")
	assert.False(t, ok)

	fis = mine(t, trns, 3)
	assert.Equal(t, map[string]int{"a": 3}, fis.Map())
}

func TestMineWeightedTransactions(t *testing.T) {
	trns := []Transaction{
		{Items: []string{"a", "b"}, Weight: 2},
		NewTransaction("b"),
		{Items: []string{"a", "c"}, Weight: 1},
		NewTransaction("a", "a", "b"),
	}
	fis := mine(t, trns, 3)
	assert.Equal(t, map[string]int{"a": 4, "b": 4, "a,b": 3}, fis.Map())
	assert.Equal(t, 5, fis.Transactions())
}

func TestMineMatchesBruteForce(t *testing.T) {
	wordsColl := [][]string{
		{"ABCD", "AD", "AC", "AK", "DKL"},
		{"ABCD", "ABDE", "AD", "ADF", "DFG", "GA", "GB", "GC", "AB", "KT"},
		{"DFG", "GA", "GC", "DA", "DB"},
		{"ABCDE", "KLME", "BF", "H", "KCT", "JKIN", "SUV", "BZ"},
		{"ABCDEF", "ABCDEF", "BCDEF", "ACEF", "ABDF", "FEDCBA", "CDE", "AB"},
	}
	for _, words := range wordsColl {
		trns := splitWords(words)
		for minSupport := 1; minSupport <= 3; minSupport++ {
			fis := mine(t, trns, minSupport)
			assert.Equal(t, bruteForceSupport(trns, minSupport), sortedMinedMap(fis),
				"words %v min support %d", words, minSupport)
		}
	}

	weighted := splitWords([]string{"ABC", "BCD", "ACD", "ABD", "AB"})
	for idx := range weighted {
		weighted[idx].Weight = idx + 1
	}
	fis := mine(t, weighted, 4)
	assert.Equal(t, bruteForceSupport(weighted, 4), sortedMinedMap(fis))
}

func TestMineAprioriMonotonicity(t *testing.T) {
	words := []string{"ABCDEF", "ABCDEF", "BCDEF", "ACEF", "ABDF", "FEDCBA", "CDE", "AB", "BDF"}
	fis := mine(t, splitWords(words), 2)
	require.Greater(t, fis.Len(), 0)

	for key, support := range fis.Map() {
		items := strings.Split(key, KeyDelimiter)
		for mask := 1; mask < 1<<len(items)-1; mask++ {
			sub := make([]string, 0, len(items))
			for idx, itm := range items {
				if mask&(1<<idx) != 0 {
					sub = append(sub, itm)
				}
			}
			subSupport, ok := fis.Support(sub...)
			assert.True(t, ok, "subset %v of %s missing", sub, key)
			assert.GreaterOrEqual(t, subSupport, support)
		}
	}
}

func TestMineKeysAreCanonical(t *testing.T) {
	words := []string{"ABCDEF", "FEDCBA", "BCDEF", "ACEF", "ABDF", "CDE", "AB"}
	fis := mine(t, splitWords(words), 2)
	dict := fis.Dictionary()
	for key := range fis.Map() {
		items := strings.Split(key, KeyDelimiter)
		canonical, ok := fis.Key(items...)
		assert.True(t, ok)
		assert.Equal(t, key, canonical)
		for idx := 1; idx < len(items); idx++ {
			prev, _ := dict.ID(items[idx-1])
			curr, _ := dict.ID(items[idx])
			assert.Less(t, prev, curr)
			assert.GreaterOrEqual(t, dict.Support(items[idx-1]), dict.Support(items[idx]))
		}
	}
}
