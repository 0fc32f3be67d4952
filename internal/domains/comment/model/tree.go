package model

import "github.com/google/uuid"

// BuildTree nests a book's comments into a forest.
// rows must be ordered oldest first; every sibling list keeps that order.
// A row whose parent is missing from rows (deleted, or from another book) becomes a root,
// so no comment is ever dropped. Built with a map in two passes, no recursion.
func BuildTree(rows []Comment) []*CommentNode {
	nodes := make(map[uuid.UUID]*CommentNode, len(rows))
	ordered := make([]*CommentNode, 0, len(rows))

	// Pass 1: one node per row
	for _, row := range rows {
		if _, dup := nodes[row.ID]; dup {
			continue
		}
		node := &CommentNode{Comment: row, Replies: []*CommentNode{}}
		nodes[row.ID] = node
		ordered = append(ordered, node)
	}

	// Pass 2: attach to parent or promote to root
	roots := make([]*CommentNode, 0)
	for _, node := range ordered {
		if node.ParentID != nil && *node.ParentID != node.ID {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	// Rows in or below a parent cycle are unreachable from any root.
	// Each cycle is cut at its oldest member, which becomes a root.
	position := make(map[uuid.UUID]int, len(ordered))
	for i, node := range ordered {
		position[node.ID] = i
	}
	reached := make(map[uuid.UUID]bool, len(ordered))
	Walk(roots, func(n *CommentNode) { reached[n.ID] = true })
	for _, node := range ordered {
		if reached[node.ID] {
			continue
		}
		cut := oldestInCycle(node, nodes, position)
		parent := nodes[*cut.ParentID]
		parent.Replies = removeNode(parent.Replies, cut)
		roots = append(roots, cut)
		Walk([]*CommentNode{cut}, func(n *CommentNode) { reached[n.ID] = true })
	}

	return roots
}

// oldestInCycle follows parent links from an unreachable node until one repeats,
// then returns the earliest-positioned member of that cycle
func oldestInCycle(start *CommentNode, nodes map[uuid.UUID]*CommentNode, position map[uuid.UUID]int) *CommentNode {
	seen := make(map[uuid.UUID]bool)
	current := start
	for !seen[current.ID] {
		seen[current.ID] = true
		current = nodes[*current.ParentID]
	}

	oldest := current
	for member := nodes[*current.ParentID]; member != current; member = nodes[*member.ParentID] {
		if position[member.ID] < position[oldest.ID] {
			oldest = member
		}
	}
	return oldest
}

func removeNode(list []*CommentNode, target *CommentNode) []*CommentNode {
	out := list[:0]
	for _, n := range list {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// Walk visits every node of the forest depth-first with an explicit stack
func Walk(forest []*CommentNode, fn func(*CommentNode)) {
	stack := make([]*CommentNode, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, forest[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fn(node)

		for i := len(node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, node.Replies[i])
		}
	}
}

// CountNodes returns the number of comments in the forest, replies included
func CountNodes(forest []*CommentNode) int {
	n := 0
	Walk(forest, func(*CommentNode) { n++ })
	return n
}
