package instance

import "github.com/viant/structology/conv"

// Option customises a Context.
type Option func(c *Context)

// WithConverter sets the converter used by typed accessors.
func WithConverter(converter *conv.Converter) Option {
	return func(c *Context) {
		c.converter = converter
	}
}

// WithListeners registers listeners invoked on every Set.
func WithListeners(listeners ...Listener) Option {
	return func(c *Context) {
		c.listeners = append(c.listeners, listeners...)
	}
}

// WithState seeds the context with a copy of state.
func WithState(state map[string]interface{}) Option {
	return func(c *Context) {
		for k, v := range state {
			c.state[k] = v
		}
	}
}
