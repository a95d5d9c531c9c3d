// Package ui holds small interactive widgets shared by the terminal screens.
package ui

import "github.com/tomz197/letterfall/internal/layout"

// Dropdown is the keyboard layout picker: a trigger showing the current
// layout and a list of options that is hidden until the trigger is toggled.
type Dropdown struct {
	options  []layout.Layout
	onSelect func(layout.Layout)
	label    string
	hidden   bool
	cursor   int // Highlighted option while open
}

// NewDropdown creates a hidden dropdown whose trigger shows initial.
// onSelect is called every time an option is chosen.
func NewDropdown(onSelect func(layout.Layout), initial layout.Layout) *Dropdown {
	d := &Dropdown{
		options:  layout.All(),
		onSelect: onSelect,
		label:    initial.Label(),
		hidden:   true,
	}
	d.cursor = d.indexOf(initial)
	return d
}

// Toggle opens a hidden dropdown and closes an open one.
func (d *Dropdown) Toggle() {
	if d.hidden {
		d.Open()
	} else {
		d.Close()
	}
}

// Open shows the options.
func (d *Dropdown) Open() {
	d.hidden = false
}

// Close hides the options.
func (d *Dropdown) Close() {
	d.hidden = true
}

// Hidden reports whether the options are hidden.
func (d *Dropdown) Hidden() bool {
	return d.hidden
}

// Label returns the trigger text.
func (d *Dropdown) Label() string {
	return d.label
}

// Select applies l: notifies the callback, updates the trigger and closes.
func (d *Dropdown) Select(l layout.Layout) {
	if d.onSelect != nil {
		d.onSelect(l)
	}
	d.label = l.Label()
	d.cursor = d.indexOf(l)
	d.Close()
}

// MoveUp highlights the previous option, wrapping around.
func (d *Dropdown) MoveUp() {
	d.cursor = (d.cursor - 1 + len(d.options)) % len(d.options)
}

// MoveDown highlights the next option, wrapping around.
func (d *Dropdown) MoveDown() {
	d.cursor = (d.cursor + 1) % len(d.options)
}

// Confirm selects the highlighted option.
func (d *Dropdown) Confirm() {
	d.Select(d.options[d.cursor])
}

// SelectIndex selects the option at the 1-based menu position n.
// It reports false when n is out of range.
func (d *Dropdown) SelectIndex(n int) bool {
	if n < 1 || n > len(d.options) {
		return false
	}
	d.Select(d.options[n-1])
	return true
}

// Items returns the option labels and the highlighted index.
func (d *Dropdown) Items() ([]string, int) {
	labels := make([]string, len(d.options))
	for i, o := range d.options {
		labels[i] = o.Label()
	}
	return labels, d.cursor
}

func (d *Dropdown) indexOf(l layout.Layout) int {
	for i, o := range d.options {
		if o == l {
			return i
		}
	}
	return 0
}
