// Package models defines the data types shared by the xl-ref
// resolution pipeline: coordinates, edges, call-specs, layered
// options and the sheet capability interface.
package models

import "fmt"

// Coords addresses a single cell with zero-based row/column indexes.
// Capture-rect bounds are inclusive on both ends.
type Coords struct {
	// Row is the zero-based row index.
	Row int `json:"row"`
	// Col is the zero-based column index.
	Col int `json:"col"`
}

func (c Coords) String() string {
	return fmt.Sprintf("R%dC%d", c.Row+1, c.Col+1)
}
