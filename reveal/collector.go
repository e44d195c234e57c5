package reveal

import (
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
)

// ScriptID is the id of the JSON block read by the reveal.js bootstrap.
const ScriptID = "reveal-registrations"

// Collector is a per-request Service. It buffers registrations so the page
// layout can hand them to the browser once rendering is done.
type Collector struct {
	mu    sync.Mutex
	regs  []Registration
	calls int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Reveal implements Service.
func (c *Collector) Reveal(_ context.Context, batch []Registration) error {
	c.mu.Lock()
	c.regs = append(c.regs, batch...)
	c.calls++
	c.mu.Unlock()
	return nil
}

// Registrations returns everything collected so far.
func (c *Collector) Registrations() []Registration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Registration(nil), c.regs...)
}

// Calls reports how many batches were received.
func (c *Collector) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Script renders the registrations collected by the time it is rendered as a
// JSON script element, so it belongs after the sections in the document.
// Nothing is written when no element was registered.
func (c *Collector) Script() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		regs := c.Registrations()
		if len(regs) == 0 {
			return nil
		}
		return templ.JSONScript(ScriptID, regs).Render(ctx, w)
	})
}
