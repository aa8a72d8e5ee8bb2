package block

import "github.com/octobridge/octobridge/internal/message"

// Pager wraps a set of children and forwards next/previous to all of them
// simultaneously (spec §4.F).
type Pager struct {
	Children []interface {
		Next()
		Previous()
		Current() []message.Message
	}
}

func NewPager(children ...interface {
	Next()
	Previous()
	Current() []message.Message
}) *Pager {
	return &Pager{Children: children}
}

// Next scrolls every child forward and returns every child's resulting
// LED-reflecting state.
func (p *Pager) Next() []message.Message {
	var out []message.Message
	for _, c := range p.Children {
		c.Next()
		out = append(out, c.Current()...)
	}
	return out
}

// Previous scrolls every child back and returns every child's resulting
// LED-reflecting state.
func (p *Pager) Previous() []message.Message {
	var out []message.Message
	for _, c := range p.Children {
		c.Previous()
		out = append(out, c.Current()...)
	}
	return out
}

// Current concatenates every child's current page.
func (p *Pager) Current() []message.Message {
	var out []message.Message
	for _, c := range p.Children {
		out = append(out, c.Current()...)
	}
	return out
}
