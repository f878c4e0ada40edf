// Package dataflow implements a dataflow computation engine: recipes,
// nodes, and the inputs that connect them, executed under either a
// depth-first single-threaded runner or a work-stealing thread-pool
// runner.
package dataflow
