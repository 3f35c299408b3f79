// Package cart implements the client-held cart aggregate. The browser owns
// this state in durable local storage until checkout; the server uses the same
// aggregate to normalize and re-total submitted carts before creating an
// order snapshot.
package cart

import "github.com/example/sahara/internal/utils"

// Line is one {item, quantity} pair. The fields mirror the JSON blob the
// browser persists, so a stored cart unmarshals directly into []Line.
type Line struct {
	ItemID   string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Extras   string  `json:"extras,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Cart keeps lines in insertion order.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromLines builds a cart from a stored blob, merging duplicate item ids and
// clamping quantities to at least 1.
func FromLines(lines []Line) *Cart {
	c := New()
outer:
	for _, l := range lines {
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		for i := range c.lines {
			if c.lines[i].ItemID == l.ItemID {
				c.lines[i].Quantity += l.Quantity
				continue outer
			}
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Add appends the item with quantity 1, or increments the quantity when the
// item id is already present.
func (c *Cart) Add(line Line) {
	for i := range c.lines {
		if c.lines[i].ItemID == line.ItemID {
			c.lines[i].Quantity++
			return
		}
	}
	line.Quantity = 1
	c.lines = append(c.lines, line)
}

// Remove drops the line with the given item id, if present.
func (c *Cart) Remove(itemID string) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity sets a line's quantity, clamped to a minimum of 1. Unknown item
// ids are ignored; removal is explicit via Remove.
func (c *Cart) SetQuantity(itemID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = qty
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total is the sum of price times quantity across all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// TotalFils is the cart total in integer fils, rounded.
func (c *Cart) TotalFils() int64 {
	return utils.ToFils(c.Total())
}

// Count is the sum of quantities across all lines.
func (c *Cart) Count() int {
	var count int
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}
