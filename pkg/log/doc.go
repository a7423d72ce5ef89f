// Package log provides the logging abstraction used by wincloner components.
//
// The Logger interface can be implemented by any logging library. A zerolog
// adapter is provided for normal operation and a no-op logger for tests.
//
// Use the zerolog adapter:
//
//	logger := log.NewZerologLogger(zerolog.New(os.Stderr))
//
// Or silence a component under test:
//
//	logger := log.NewNoopLogger()
package log
