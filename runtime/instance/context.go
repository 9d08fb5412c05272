package instance

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/viant/structology/conv"
)

// Listener is invoked every time Context.Set overwrites an existing key or
// inserts a new one. Listeners run synchronously after the lock is released.
type Listener func(c *Context, key string, oldVal, newVal interface{})

// Context is the per-instance property bag shared by every workflow step.
// Values loaded back from storage may come in their JSON shape (float64,
// RFC3339 strings, []interface{}), typed accessors normalise them.
type Context struct {
	ID        string
	state     map[string]interface{}
	converter *conv.Converter
	listeners []Listener
	mu        sync.RWMutex
}

// Set adds or updates a key
func (c *Context) Set(key string, value interface{}) {
	c.mu.Lock()
	old := c.state[key]
	c.state[key] = value
	listeners := c.listeners
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(c, key, old, value)
	}
}

// Get retrieves a raw value
func (c *Context) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.state[key]
	return value, ok
}

// Has returns true when key is present
func (c *Context) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// GetString retrieves a string value
func (c *Context) GetString(key string) (string, bool) {
	value, ok := c.Get(key)
	if !ok || value == nil {
		return "", false
	}
	switch actual := value.(type) {
	case string:
		return actual, true
	case fmt.Stringer:
		return actual.String(), true
	}
	return fmt.Sprintf("%v", value), true
}

// StringOr returns the string value or fallback when absent
func (c *Context) StringOr(key, fallback string) string {
	if value, ok := c.GetString(key); ok {
		return value
	}
	return fallback
}

// GetInt retrieves an integer value. It returns an error when the value is
// present but cannot be represented as int.
func (c *Context) GetInt(key string) (int, bool, error) {
	value, ok := c.Get(key)
	if !ok || value == nil {
		return 0, false, nil
	}
	switch actual := value.(type) {
	case int:
		return actual, true, nil
	case int32:
		return int(actual), true, nil
	case int64:
		return int(actual), true, nil
	case float64:
		if actual != float64(int(actual)) {
			return 0, true, fmt.Errorf("%v: non integer value %v", key, actual)
		}
		return int(actual), true, nil
	case json.Number:
		n, err := actual.Int64()
		return int(n), true, err
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(actual))
		if err != nil {
			return 0, true, fmt.Errorf("%v: invalid integer %q: %w", key, actual, err)
		}
		return n, true, nil
	}
	ret := 0
	if err := c.ensureConverter().Convert(value, &ret); err != nil {
		return 0, true, fmt.Errorf("%v: failed to convert %T to int: %w", key, value, err)
	}
	return ret, true, nil
}

// IntOr returns the integer value or fallback when absent or invalid
func (c *Context) IntOr(key string, fallback int) int {
	value, ok, err := c.GetInt(key)
	if !ok || err != nil {
		return fallback
	}
	return value
}

// GetBool retrieves a boolean value
func (c *Context) GetBool(key string) (bool, bool) {
	value, ok := c.Get(key)
	if !ok || value == nil {
		return false, false
	}
	if actual, ok := value.(bool); ok {
		return actual, true
	}
	ret := false
	if err := c.ensureConverter().Convert(value, &ret); err != nil {
		return false, false
	}
	return ret, true
}

// GetTime retrieves a time value stored either as time.Time or RFC3339 text
func (c *Context) GetTime(key string) (time.Time, bool) {
	value, ok := c.Get(key)
	if !ok || value == nil {
		return time.Time{}, false
	}
	switch actual := value.(type) {
	case time.Time:
		return actual, true
	case *time.Time:
		if actual == nil {
			return time.Time{}, false
		}
		return *actual, true
	case string:
		ts, err := time.Parse(time.RFC3339Nano, actual)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
	return time.Time{}, false
}

// GetStrings retrieves a string slice
func (c *Context) GetStrings(key string) []string {
	value, ok := c.Get(key)
	if !ok || value == nil {
		return nil
	}
	switch actual := value.(type) {
	case []string:
		return append([]string(nil), actual...)
	case []interface{}:
		ret := make([]string, 0, len(actual))
		for _, item := range actual {
			ret = append(ret, fmt.Sprintf("%v", item))
		}
		return ret
	case string:
		return []string{actual}
	}
	return nil
}

// Seen returns true when invocationID effects were already applied
func (c *Context) Seen(invocationID string) bool {
	if invocationID == "" {
		return false
	}
	for _, id := range c.GetStrings(KeyHistoryInvocations) {
		if id == invocationID {
			return true
		}
	}
	return false
}

// Remember records invocationID as applied
func (c *Context) Remember(invocationID string) {
	if invocationID == "" || c.Seen(invocationID) {
		return
	}
	ids := append(c.GetStrings(KeyHistoryInvocations), invocationID)
	c.Set(KeyHistoryInvocations, ids)
}

// Keys returns sorted keys
func (c *Context) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret := make([]string, 0, len(c.state))
	for k := range c.state {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Snapshot returns a copy of the underlying state
func (c *Context) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret := make(map[string]interface{}, len(c.state))
	for k, v := range c.state {
		if ids, ok := v.([]string); ok {
			v = append([]string(nil), ids...)
		}
		ret[k] = v
	}
	return ret
}

// Clone creates a copy of the context, listeners included
func (c *Context) Clone() *Context {
	c.mu.RLock()
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.RUnlock()
	return NewContext(c.ID, WithState(c.Snapshot()), WithConverter(c.converter), WithListeners(listeners...))
}

func (c *Context) ensureConverter() *conv.Converter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.converter == nil {
		c.converter = conv.NewConverter(conv.DefaultOptions())
	}
	return c.converter
}

// NewContext creates a workflow context
func NewContext(id string, opts ...Option) *Context {
	ret := &Context{ID: id, state: make(map[string]interface{})}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
