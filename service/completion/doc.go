// Package completion finalizes a terminal workflow: it derives the outcome
// from the last decision and renders the notification payload handed to an
// external notifier.
package completion
