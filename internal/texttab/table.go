// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out column-aligned text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up a row at once.
type Table struct {
	rows  [][]cell
	align []Align
}

type cell struct {
	value string
	align Align
}

// An Align is the horizontal alignment of a cell.
type Align int

const (
	Left Align = iota
	Right
)

// Row starts a new row in t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// SetAlign sets the default alignment of column col.
func (t *Table) SetAlign(col int, a Align) {
	for len(t.align) <= col {
		t.align = append(t.align, Left)
	}
	t.align[col] = a
}

// Cell adds a cell to the current row, using its column's default
// alignment.
func (t *Table) Cell(value string) *Table {
	col := 0
	if len(t.rows) > 0 {
		col = len(t.rows[len(t.rows)-1])
	}
	a := Left
	if col < len(t.align) {
		a = t.align[col]
	}
	return t.AlignedCell(value, a)
}

// AlignedCell adds a cell with alignment a to the current row.
func (t *Table) AlignedCell(value string, a Align) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	r := &t.rows[len(t.rows)-1]
	*r = append(*r, cell{value, a})
	return t
}

// Format lays out t and writes it to w. Columns are separated by two
// spaces, and trailing spaces are trimmed from each line.
func (t *Table) Format(w io.Writer) error {
	var widths []int
	for _, row := range t.rows {
		for col, c := range row {
			if col == len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(c.value); n > widths[col] {
				widths[col] = n
			}
		}
	}

	var line strings.Builder
	for _, row := range t.rows {
		line.Reset()
		for col, c := range row {
			if col > 0 {
				line.WriteString("  ")
			}
			pad := widths[col] - utf8.RuneCountInString(c.value)
			if c.align == Right {
				fmt.Fprintf(&line, "%*s%s", pad, "", c.value)
			} else {
				fmt.Fprintf(&line, "%s%*s", c.value, pad, "")
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
