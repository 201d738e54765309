// Package display renders loop traffic to a terminal.
//
// The display is a pure output sink behind the engine's Sink interface: it
// accepts completed lines tagged with their channel and has no bearing on
// IPC correctness. Console colorizes the channel tags; Nop discards
// everything and is useful for tests and silent operation.
package display
