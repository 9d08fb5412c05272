// Package tracing wraps OpenTelemetry so that workflow steps can be traced
// without importing the upstream packages directly. Tracing is disabled
// unless explicitly initialised.
package tracing
