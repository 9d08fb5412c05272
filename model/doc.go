// Package model groups the types shared between the executor and the
// action services it invokes.
package model
