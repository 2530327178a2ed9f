// Package log wraps zerolog with a process-wide logger and helpers for
// attaching component and instance fields to child loggers.
package log
