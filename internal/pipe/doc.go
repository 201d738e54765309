// Package pipe manages unidirectional OS pipe pairs.
//
// A Pair owns the two descriptors of one pipe(2) allocation. The launcher
// hands the child's side of each pair to the kernel during exec and closes
// the parent's copy; the parent's side stays raw so the inbound channel can
// be read non-blocking, bypassing the runtime poller.
package pipe
