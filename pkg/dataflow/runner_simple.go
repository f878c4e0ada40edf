package dataflow

// Runner schedules a set of pending (non-available) Nodes to completion,
// respecting each node's declared wait dependencies. It returns once every
// pending node is available, or propagates the first error encountered.
type Runner func(pending []*Node) error

// SimpleRunner steps nodes depth-first on the caller's goroutine. It keeps
// a LIFO stack of runnable nodes: the top of the stack is stepped once; if
// that step reveals new blockers, they are pushed on top and stepped
// before returning to the original node.
func SimpleRunner(pending []*Node) error {
	stack := append([]*Node(nil), pending...)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.Available() {
			stack = stack[:len(stack)-1]
			continue
		}

		if err := top.step(); err != nil {
			return err
		}

		if top.Available() {
			stack = stack[:len(stack)-1]
			continue
		}

		blockers := top.waitBlockers()
		for _, b := range blockers {
			if !b.Available() {
				stack = append(stack, b)
			}
		}
	}
	return nil
}
