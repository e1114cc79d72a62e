package fptree

import (
	U "fpmine/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Node is a vertex of a Tree. Nodes belong to exactly one tree and must be
// treated as read-only by callers.
type Node struct {
	Item       ItemID
	Counter    int
	IsRoot     bool
	ParentNode *Node
	Children   []*Node
	nextMap    map[ItemID]*Node
	// AuxNode links to the next node carrying the same item, in insertion order.
	AuxNode *Node
}

func InitNode(item ItemID, count int) *Node {
	return &Node{Item: item, Counter: count}
}

// ConditionalPattern is a weighted item sequence: a raw transaction when the
// root tree is built, a prefix path when a conditional tree is built.
type ConditionalPattern struct {
	Items []ItemID
	Count int
}

// Tree is a frequent pattern tree. It is not modified after construction;
// conditional trees are new trees sharing only the item dictionary.
type Tree struct {
	root       *Node
	headMap    map[ItemID]*Node
	tailMap    map[ItemID]*Node
	countMap   map[ItemID]int
	freqItems  []ItemID
	rank       map[ItemID]int
	minSupport int
	dict       *Dictionary
	nodeCount  int
}

func initTree(dict *Dictionary, minSupport int) *Tree {
	return &Tree{
		root:       &Node{IsRoot: true},
		headMap:    make(map[ItemID]*Node),
		tailMap:    make(map[ItemID]*Node),
		countMap:   make(map[ItemID]int),
		rank:       make(map[ItemID]int),
		minSupport: minSupport,
		dict:       dict,
	}
}

// BuildTree builds the tree of trns keeping the items whose support reaches
// minSupport.
func BuildTree(trns []Transaction, minSupport int) (*Tree, error) {
	if minSupport < 1 {
		return nil, errors.Wrapf(ErrInvalidInput, "min support %d must be at least 1", minSupport)
	}
	total := 0
	for idx, tr := range trns {
		if err := tr.validate(idx); err != nil {
			return nil, err
		}
		total += tr.Weight
	}

	support, firstSeen := countSupport(trns)
	order := U.FilterOnPriority(U.SortOnPriorityTable(firstSeen, support, false), support, minSupport)
	dict := newDictionary(order, support, total)

	patterns := make([]ConditionalPattern, 0, len(trns))
	for _, tr := range trns {
		items := make([]ItemID, 0, len(tr.Items))
		for _, itm := range U.MakeUniqueTrans(tr.Items) {
			if id, ok := dict.ID(itm); ok {
				items = append(items, id)
			}
		}
		if len(items) == 0 {
			continue
		}
		patterns = append(patterns, ConditionalPattern{Items: items, Count: tr.Weight})
	}

	t := buildTree(patterns, minSupport, dict)
	log.WithFields(log.Fields{
		"transactions":   len(trns),
		"items":          len(support),
		"frequent_items": len(order),
		"nodes":          t.nodeCount,
		"min_support":    minSupport,
	}).Debug("Built fp tree.")
	return t, nil
}

func buildTree(patterns []ConditionalPattern, minSupport int, dict *Dictionary) *Tree {
	t := initTree(dict, minSupport)

	support := make(map[ItemID]int)
	firstSeen := make([]ItemID, 0)
	for _, p := range patterns {
		for _, itm := range p.Items {
			if _, ok := support[itm]; !ok {
				firstSeen = append(firstSeen, itm)
			}
			support[itm] += p.Count
		}
	}
	t.freqItems = U.FilterOnPriority(U.SortOnPriorityTable(firstSeen, support, false), support, minSupport)
	for idx, itm := range t.freqItems {
		t.rank[itm] = idx
		t.countMap[itm] = support[itm]
	}

	for _, p := range patterns {
		t.orderAndInsertTrans(p)
	}
	return t
}

// orderAndInsertTrans drops the infrequent items of p, orders the rest on
// the tree's frequent item order and inserts them.
func (t *Tree) orderAndInsertTrans(p ConditionalPattern) {
	items := make([]ItemID, 0, len(p.Items))
	for _, itm := range p.Items {
		if _, ok := t.rank[itm]; ok {
			items = append(items, itm)
		}
	}
	if len(items) == 0 {
		return
	}
	slices.SortFunc(items, func(a, b ItemID) int {
		return t.rank[a] - t.rank[b]
	})
	t.insertItemsIntoTree(items, p.Count)
}

func (t *Tree) insertItemsIntoTree(items []ItemID, count int) {
	current := t.root
	for _, itm := range items {
		child, ok := current.nextMap[itm]
		if ok {
			child.Counter += count
		} else {
			child = InitNode(itm, count)
			child.ParentNode = current
			if current.nextMap == nil {
				current.nextMap = make(map[ItemID]*Node)
			}
			current.nextMap[itm] = child
			current.Children = append(current.Children, child)
			t.updateHeaderTable(child)
			t.nodeCount++
		}
		current = child
	}
}

func (t *Tree) updateHeaderTable(n *Node) {
	tail, ok := t.tailMap[n.Item]
	if !ok {
		t.headMap[n.Item] = n
	} else {
		tail.AuxNode = n
	}
	t.tailMap[n.Item] = n
}

// ConditionalTree builds the tree of the prefix paths leading to item.
func (t *Tree) ConditionalTree(item string) (*Tree, error) {
	id, ok := t.dict.ID(item)
	if !ok {
		return nil, errors.Wrapf(ErrLookupMiss, "item %q is not frequent", item)
	}
	if _, ok := t.countMap[id]; !ok {
		return nil, errors.Wrapf(ErrLookupMiss, "item %q is not frequent in this tree", item)
	}
	return t.conditionalTree(id), nil
}

func (t *Tree) conditionalTree(id ItemID) *Tree {
	condPatt := t.findPrefixPath(id)
	log.Debugf("Item %s has %d prefix paths.", t.dict.Name(id), len(condPatt))
	return buildTree(condPatt, t.minSupport, t.dict)
}

// findPrefixPath collects, for every node of item, the path from the root
// down to its parent weighted by the node's counter.
func (t *Tree) findPrefixPath(item ItemID) []ConditionalPattern {
	condPattern := make([]ConditionalPattern, 0)
	for treeNode := t.headMap[item]; treeNode != nil; treeNode = treeNode.AuxNode {
		if treeNode.ParentNode.IsRoot {
			continue
		}
		prefixPath := ascendFpTree(treeNode.ParentNode)
		slices.Reverse(prefixPath)
		condPattern = append(condPattern, ConditionalPattern{Items: prefixPath, Count: treeNode.Counter})
	}
	return condPattern
}

// ascendFpTree lists the items from n up to, not including, the root.
func ascendFpTree(n *Node) []ItemID {
	prefixPath := make([]ItemID, 0)
	for ; !n.IsRoot; n = n.ParentNode {
		prefixPath = append(prefixPath, n.Item)
	}
	return prefixPath
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) MinSupport() int {
	return t.minSupport
}

func (t *Tree) Dictionary() *Dictionary {
	return t.dict
}

// IsEmpty reports whether no item of the tree is frequent.
func (t *Tree) IsEmpty() bool {
	return len(t.freqItems) == 0
}

// FrequentItems lists the frequent items by descending support in this tree.
func (t *Tree) FrequentItems() []string {
	res := make([]string, 0, len(t.freqItems))
	for _, itm := range t.freqItems {
		res = append(res, t.dict.Name(itm))
	}
	return res
}

// Support returns the support of item within this tree. For the root tree
// this is the global support.
func (t *Tree) Support(item string) (int, bool) {
	id, ok := t.dict.ID(item)
	if !ok {
		return 0, false
	}
	count, ok := t.countMap[id]
	return count, ok
}

// ItemSupport returns the global support of every item of the dataset.
func (t *Tree) ItemSupport() map[string]int {
	return t.dict.ItemSupport()
}

// Transactions returns the summed weight of the dataset's transactions.
func (t *Tree) Transactions() int {
	return t.dict.transactions
}

// Nodes returns the header list of item: every node carrying it, in
// insertion order.
func (t *Tree) Nodes(item string) []*Node {
	id, ok := t.dict.ID(item)
	if !ok {
		return nil
	}
	nodes := make([]*Node, 0)
	for n := t.headMap[id]; n != nil; n = n.AuxNode {
		nodes = append(nodes, n)
	}
	return nodes
}

func (t *Tree) NodeCount() int {
	return t.nodeCount
}

// Name resolves the item of a node.
func (t *Tree) Name(n *Node) string {
	if n.IsRoot {
		return ""
	}
	return t.dict.Name(n.Item)
}
