package dataflow

import "fmt"

// discover returns every transitively-reachable non-available Node rooted
// at roots, in breadth-first-by-depth order (roots first). A sub-result
// projection is treated as its parent node; an InputSequence is treated as
// its members. The visited set is keyed by node identity so a node shared
// by two branches appears exactly once, at its first (shallowest)
// discovery point.
func discover(roots []*Node) []*Node {
	visited := make(map[*Node]bool)
	var order []*Node

	queue := make([]*Node, 0, len(roots))
	for _, r := range roots {
		if r != nil && !r.Available() && !visited[r] {
			visited[r] = true
			queue = append(queue, r)
			order = append(order, r)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		for _, dep := range inputDeps(n.Inputs()) {
			if visited[dep] || dep.Available() {
				continue
			}
			visited[dep] = true
			order = append(order, dep)
			queue = append(queue, dep)
		}
	}

	return order
}

// inputDeps flattens a node's raw input list down to the distinct
// non-available Nodes it directly depends on, unwrapping sub-result
// projections and input sequences along the way.
func inputDeps(inputs []Input) []*Node {
	var deps []*Node
	seen := make(map[*Node]bool)
	var walk func(Input)
	walk = func(in Input) {
		switch v := in.(type) {
		case *Node:
			if !v.Available() && !seen[v] {
				seen[v] = true
				deps = append(deps, v)
			}
		case *subresultInput:
			walk(v.parent)
		case *InputSequence:
			for _, item := range v.items {
				if asInput, ok := item.(Input); ok {
					walk(asInput)
				}
			}
		}
	}
	for _, in := range inputs {
		walk(in)
	}
	return deps
}

// rename assigns unique display names to nodes, in place. Solitary names
// are left untouched. Names occurring N>1 times are suffixed "#k" in
// reverse discovery order, so the first-discovered instance of a
// duplicated name receives "#1".
func rename(nodes []*Node) {
	counts := make(map[string]int)
	for _, n := range nodes {
		counts[n.Name()]++
	}

	next := make(map[string]int)
	for name, c := range counts {
		next[name] = c
	}

	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		name := n.Name()
		if counts[name] <= 1 {
			continue
		}
		k := next[name]
		next[name] = k - 1
		n.setName(fmt.Sprintf("%s#%d", name, k))
	}
}
