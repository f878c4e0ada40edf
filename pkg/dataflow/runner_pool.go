package dataflow

import "sync"

// report is what a worker goroutine sends back to the coordinator after
// stepping one node.
type report struct {
	kind    reportKind
	node    *Node
	blocked []*Node
	err     error
}

type reportKind int

const (
	reportWait reportKind = iota
	reportDone
	reportExc
	reportExit
)

// ThreadPoolRunner returns a Runner backed by poolSize worker goroutines.
// Workers pull runnable nodes off a channel, step them once, and report
// back over a second channel; a coordinator running on the caller's own
// goroutine tracks which nodes are blocked on which, promoting a node from
// blocked to runnable only once every node it waits on has completed —
// the same WaitGroup/channel/dependency-map shape the control plane this
// is descended from used for its own concurrent step scheduler, here
// generalized from static DependsOn lists to dynamically discovered wait
// tokens.
func ThreadPoolRunner(poolSize int) (Runner, error) {
	if poolSize < 1 {
		return nil, newConstructionError("thread pool runner size must be >= 1, got %d", poolSize)
	}
	return func(pending []*Node) error {
		return runPool(pending, poolSize)
	}, nil
}

func runPool(pending []*Node, poolSize int) error {
	runnable := make(chan *Node, len(pending)+poolSize)
	reports := make(chan report, len(pending)+poolSize)
	var abort sync.Map // set to true (any key) once an error occurred

	var wg sync.WaitGroup
	wg.Add(poolSize)
	for i := 0; i < poolSize; i++ {
		go poolWorker(runnable, reports, &abort, &wg)
	}
	defer wg.Wait()

	blockedOn := make(map[*Node][]*Node) // node -> nodes it is waiting on
	blocking := make(map[*Node][]*Node)  // node -> nodes waiting on it
	active := make(map[*Node]bool)       // submitted, not yet reported

	submit := func(n *Node) {
		active[n] = true
		runnable <- n
	}

	for _, n := range pending {
		if !n.Available() && !active[n] {
			submit(n)
		}
	}

	liveWorkers := poolSize
	var runErr error

	teardown := func() {
		abort.Store("abort", true)
		for i := 0; i < liveWorkers; i++ {
			runnable <- nil
		}
		for liveWorkers > 0 {
			r := <-reports
			switch r.kind {
			case reportExc, reportExit:
				liveWorkers--
			}
		}
	}

	for len(active) > 0 {
		r := <-reports
		switch r.kind {
		case reportWait:
			delete(active, r.node)
			if len(r.blocked) == 0 {
				// Everything it waited on completed while it was being
				// stepped: it is runnable again right away.
				submit(r.node)
				continue
			}
			blockedOn[r.node] = r.blocked
			for _, b := range r.blocked {
				blocking[b] = append(blocking[b], r.node)
				if !active[b] && len(blockedOn[b]) == 0 && !b.Available() {
					submit(b)
				}
			}
		case reportDone:
			delete(active, r.node)
			for _, waiter := range blocking[r.node] {
				rest := blockedOn[waiter][:0]
				for _, b := range blockedOn[waiter] {
					if b != r.node {
						rest = append(rest, b)
					}
				}
				blockedOn[waiter] = rest
				if len(rest) == 0 {
					submit(waiter)
				}
			}
			delete(blocking, r.node)
		case reportExc:
			runErr = r.err
			liveWorkers--
			teardown()
			return runErr
		case reportExit:
			// A worker exited without having been told to stop: an
			// internal scheduler bug, not a user-facing error.
			panic(newProtocolError("pool worker exited unexpectedly"))
		}
	}

	// All submitted nodes settled without error. Before declaring success,
	// confirm no node was left recorded as blocked on something, or as
	// blocking some other node, that never actually got resolved — a
	// dangling entry here means the dependency bookkeeping above has a bug,
	// not that the caller's graph is somehow still incomplete.
	for n, deps := range blockedOn {
		if len(deps) > 0 {
			err := newProtocolError("pool runner finished with node %q still blocked on %d unresolved dependencies", n.Name(), len(deps))
			teardown()
			return err
		}
	}
	for n, waiters := range blocking {
		if len(waiters) > 0 {
			err := newProtocolError("pool runner finished with node %q still blocking %d waiters", n.Name(), len(waiters))
			teardown()
			return err
		}
	}

	// Stop every worker.
	for i := 0; i < liveWorkers; i++ {
		runnable <- nil
	}
	for liveWorkers > 0 {
		r := <-reports
		if r.kind == reportExc || r.kind == reportExit {
			liveWorkers--
		}
	}
	return nil
}

func poolWorker(runnable <-chan *Node, reports chan<- report, abort *sync.Map, wg *sync.WaitGroup) {
	defer wg.Done()
	for n := range runnable {
		if n == nil {
			reports <- report{kind: reportExit}
			return
		}
		if _, stop := abort.Load("abort"); stop {
			reports <- report{kind: reportExit}
			return
		}

		if err := n.step(); err != nil {
			reports <- report{kind: reportExc, node: n, err: err}
			return
		}
		if n.Available() {
			reports <- report{kind: reportDone, node: n}
			continue
		}
		reports <- report{kind: reportWait, node: n, blocked: n.waitBlockers()}
	}
}
