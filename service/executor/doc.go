// Package executor bridges workflow steps with the action services that
// implement them. It resolves the service method, converts input and output
// to the method signature types and reports every invocation to a listener.
package executor
