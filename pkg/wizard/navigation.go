package wizard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/page"
)

// Pages returns the resolved pages.
func (c *Controller) Pages() []page.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clonePages(c.pages)
}

// Current returns the current page and its index.
func (c *Controller) Current() (page.Page, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clonePage(c.pages[c.index]), c.index
}

// ValidatePage validates the fields of the current page and annotates the
// failures.
func (c *Controller) ValidatePage() field.Errors {
	c.mu.Lock()
	errs := c.validatePageLocked(c.index)
	notify := c.prepareNotify()
	c.mu.Unlock()
	notify()
	return errs
}

// Advance moves to the next page when the current page is valid. Past the
// last page it returns ErrNoNextPage; with invalid fields it returns the
// field.Errors and stays put.
func (c *Controller) Advance() error {
	return c.step(+1)
}

// Retreat moves to the previous page when the current page is valid. Before
// the first page it returns ErrNoPreviousPage.
func (c *Controller) Retreat() error {
	return c.step(-1)
}

func (c *Controller) step(delta int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	target := c.index + delta
	if target >= len(c.pages) {
		c.mu.Unlock()
		return ErrNoNextPage
	}
	if target < 0 {
		c.mu.Unlock()
		return ErrNoPreviousPage
	}
	if errs := c.validatePageLocked(c.index); !errs.Empty() {
		notify := c.prepareNotify()
		c.mu.Unlock()
		notify()
		return errs
	}
	c.index = target
	c.logger.Debug("wizard page changed", zap.String("page", c.pages[target].Name), zap.Int("index", target))
	notify := c.prepareNotify()
	c.mu.Unlock()
	notify()
	return nil
}

// GoTo jumps to the named page. Every page from the current one up to the
// page before the target must be valid; jumping backwards only requires the
// current page to be valid.
func (c *Controller) GoTo(name string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	target := page.IndexOf(c.pages, name)
	if target < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	last := c.index
	if target > c.index {
		last = target - 1
	}
	for i := c.index; i <= last; i++ {
		if errs := c.validatePageLocked(i); !errs.Empty() {
			c.index = i
			notify := c.prepareNotify()
			c.mu.Unlock()
			notify()
			return errs
		}
	}
	c.index = target
	notify := c.prepareNotify()
	c.mu.Unlock()
	notify()
	return nil
}

func (c *Controller) validatePageLocked(idx int) field.Errors {
	p := c.pages[idx]
	errs := c.fields.ValidateFields(c.record, p.Fields...)
	for _, name := range p.Fields {
		c.setInvalid(name, errs[name])
	}
	return errs
}

func clonePage(p page.Page) page.Page {
	p.Fields = append([]string(nil), p.Fields...)
	return p
}

func clonePages(pages []page.Page) []page.Page {
	out := make([]page.Page, len(pages))
	for i, p := range pages {
		out[i] = clonePage(p)
	}
	return out
}
