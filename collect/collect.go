// Package collect gathers errors raised across a multi-step pass, so a
// caller can keep narrowing every parameter it can reach and report all
// failures at once instead of aborting on the first.
package collect

import "errors"

// Option tunes a Collector.
type Option func(*Collector)

// StopAtFirst makes Add report saturation after the first recorded error,
// letting a loop break early when only pass/fail matters.
func StopAtFirst() Option {
	return func(c *Collector) { c.stopAtFirst = true }
}

// Collector accumulates non-nil errors, deduplicating by message.
// The zero value collects everything.
type Collector struct {
	stopAtFirst bool
	errs        []error
	seen        map[string]struct{}
}

// New builds a Collector with the given options.
func New(opts ...Option) *Collector {
	c := &Collector{}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Add records err (nil is ignored, duplicates by message are ignored) and
// reports whether the caller should keep going: false once a StopAtFirst
// collector holds an error.
func (c *Collector) Add(err error) bool {
	if err != nil {
		if c.seen == nil {
			c.seen = make(map[string]struct{})
		}
		if _, dup := c.seen[err.Error()]; !dup {
			c.seen[err.Error()] = struct{}{}
			c.errs = append(c.errs, err)
		}
	}

	return !(c.stopAtFirst && len(c.errs) > 0)
}

// Len returns the number of distinct errors recorded.
func (c *Collector) Len() int { return len(c.errs) }

// Errs returns a copy of the recorded errors in arrival order.
func (c *Collector) Errs() []error {
	out := make([]error, len(c.errs))
	copy(out, c.errs)

	return out
}

// Err folds the collection: nil when empty, the error itself when single,
// errors.Join otherwise. errors.Is and errors.As see through the join.
func (c *Collector) Err() error {
	switch len(c.errs) {
	case 0:
		return nil
	case 1:
		return c.errs[0]
	default:
		return errors.Join(c.errs...)
	}
}
