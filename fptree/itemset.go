package fptree

import (
	"encoding/binary"
	"strings"

	"golang.org/x/exp/slices"
)

// ItemID is the rank of a frequent item in the root tree's frequent item
// order: 0 is the most frequent item. Ascending ids are the canonical order.
type ItemID uint32

// Itemset holds distinct item ids in ascending order.
type Itemset []ItemID

// With returns a new itemset holding s and id.
func (s Itemset) With(id ItemID) Itemset {
	pos, found := slices.BinarySearch(s, id)
	if found {
		return slices.Clone(s)
	}
	res := make(Itemset, 0, len(s)+1)
	res = append(res, s[:pos]...)
	res = append(res, id)
	res = append(res, s[pos:]...)
	return res
}

func (s Itemset) Contains(id ItemID) bool {
	_, found := slices.BinarySearch(s, id)
	return found
}

// key is the hashable form of the itemset used inside result maps.
func (s Itemset) key() string {
	buf := make([]byte, 0, len(s)*2)
	for _, id := range s {
		buf = binary.AppendUvarint(buf, uint64(id))
	}
	return string(buf)
}

// Dictionary interns the frequent items of a dataset. It is built once for
// the root tree and shared read-only by every conditional tree under it.
type Dictionary struct {
	names        []string
	ids          map[string]ItemID
	support      map[string]int
	transactions int
}

// newDictionary numbers the items of order, which must already be sorted
// by descending support.
func newDictionary(order []string, support map[string]int, transactions int) *Dictionary {
	d := &Dictionary{
		names:        order,
		ids:          make(map[string]ItemID, len(order)),
		support:      support,
		transactions: transactions,
	}
	for idx, name := range order {
		d.ids[name] = ItemID(idx)
	}
	return d
}

func (d *Dictionary) Len() int {
	return len(d.names)
}

func (d *Dictionary) Name(id ItemID) string {
	return d.names[id]
}

func (d *Dictionary) ID(name string) (ItemID, bool) {
	id, ok := d.ids[name]
	return id, ok
}

// Support returns the global support of any item seen in the dataset,
// frequent or not.
func (d *Dictionary) Support(name string) int {
	return d.support[name]
}

// ItemSupport returns a copy of the global support table, infrequent items
// included.
func (d *Dictionary) ItemSupport() map[string]int {
	res := make(map[string]int, len(d.support))
	for k, v := range d.support {
		res[k] = v
	}
	return res
}

// Itemset converts names to a canonical itemset. It fails when a name is
// not a frequent item.
func (d *Dictionary) Itemset(names []string) (Itemset, bool) {
	s := make(Itemset, 0, len(names))
	for _, name := range names {
		id, ok := d.ids[name]
		if !ok {
			return nil, false
		}
		s = append(s, id)
	}
	slices.Sort(s)
	return slices.Compact(s), true
}

// CanonicalKey joins names in canonical order. Any permutation of the same
// names yields the same key.
func (d *Dictionary) CanonicalKey(names []string) (string, bool) {
	s, ok := d.Itemset(names)
	if !ok {
		return "", false
	}
	return d.Join(s), true
}

func (d *Dictionary) Names(s Itemset) []string {
	res := make([]string, 0, len(s))
	for _, id := range s {
		res = append(res, d.names[id])
	}
	return res
}

// Join renders s as a canonical key.
func (d *Dictionary) Join(s Itemset) string {
	return strings.Join(d.Names(s), KeyDelimiter)
}
