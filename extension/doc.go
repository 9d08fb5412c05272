// Package extension provides the run-time registry of action services the
// executor dispatches workflow steps to.
package extension
