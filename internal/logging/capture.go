package logging

import (
	"context"
	"sync"
)

// Record is one captured log call.
type Record struct {
	Level string
	Msg   string
	Args  []any
}

// Capture is a Logger that records calls for inspection in tests.
type Capture struct {
	mu      sync.Mutex
	records []Record
}

func (c *Capture) log(level, msg string, args []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, Record{Level: level, Msg: msg, Args: args})
}

func (c *Capture) Info(_ context.Context, msg string, args ...any)  { c.log("INFO", msg, args) }
func (c *Capture) Warn(_ context.Context, msg string, args ...any)  { c.log("WARN", msg, args) }
func (c *Capture) Error(_ context.Context, msg string, args ...any) { c.log("ERROR", msg, args) }
func (c *Capture) With(...any) Logger                               { return c }

// Records returns a copy of everything logged so far.
func (c *Capture) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}
