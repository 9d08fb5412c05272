package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Since returns the time elapsed since t measured against NowFunc.
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }

// Stamp formats t the way audit lines expect it.
func Stamp(t time.Time) string { return t.Format(StampLayout) }

// StampLayout is the audit trail timestamp layout.
const StampLayout = "2006-01-02 15:04:05"
