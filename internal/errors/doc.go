// Package errors defines error types for the pipe loop engine.
//
// This package provides structured error types that wrap the different
// failure scenarios of driving a child process over a pipe pair. All error
// types support error unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
