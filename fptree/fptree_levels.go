package fptree

type nodeQueue struct {
	queue []*Node
}

func (c *nodeQueue) Enqueue(n *Node) {
	c.queue = append(c.queue, n)
}

func (c *nodeQueue) Size() int {
	return len(c.queue)
}

// DequeFront pops the oldest node; callers check Size first.
func (c *nodeQueue) DequeFront() *Node {
	front := c.queue[0]
	c.queue = c.queue[1:]
	return front
}

// NodeView is a printable snapshot of a node.
type NodeView struct {
	Item   string `json:"it"`
	Parent string `json:"pt"`
	Count  int    `json:"ct"`
}

// Levels walks the tree breadth first and returns the nodes of each depth,
// children in insertion order. The root is not included.
func (t *Tree) Levels() [][]NodeView {
	levels := make([][]NodeView, 0)
	current := &nodeQueue{queue: make([]*Node, 0)}
	current.Enqueue(t.root)

	for current.Size() > 0 {
		next := &nodeQueue{queue: make([]*Node, 0)}
		level := make([]NodeView, 0)
		for current.Size() > 0 {
			frontNode := current.DequeFront()
			for _, child := range frontNode.Children {
				level = append(level, NodeView{
					Item:   t.Name(child),
					Parent: t.Name(frontNode),
					Count:  child.Counter,
				})
				next.Enqueue(child)
			}
		}
		if len(level) > 0 {
			levels = append(levels, level)
		}
		current = next
	}
	return levels
}
