package similarity

import (
	"bytes"
	"strconv"
)

// Matrix maps a row sample to a column sample to a Cell, keeping axis order.
type Matrix struct {
	rows  []string
	cols  []string
	cells map[string]map[string]Cell
}

// NewMatrix creates a matrix with every cell Missing.
func NewMatrix(rows, cols []string) *Matrix {
	m := &Matrix{
		rows:  append([]string(nil), rows...),
		cols:  append([]string(nil), cols...),
		cells: make(map[string]map[string]Cell, len(rows)),
	}
	for _, r := range rows {
		m.cells[r] = make(map[string]Cell, len(cols))
		for _, c := range cols {
			m.cells[r][c] = MissingCell()
		}
	}
	return m
}

// Rows returns the row sample names in order.
func (m *Matrix) Rows() []string { return m.rows }

// Cols returns the column sample names in order.
func (m *Matrix) Cols() []string { return m.cols }

// At returns the cell at (row, col); unknown names yield Missing.
func (m *Matrix) At(row, col string) Cell {
	return m.cells[row][col]
}

// Set stores a cell. Setting outside the declared axes is ignored.
func (m *Matrix) Set(row, col string, c Cell) {
	r, ok := m.cells[row]
	if !ok {
		return
	}
	if _, ok := r[col]; !ok {
		return
	}
	r[col] = c
}

// Each calls fn for every cell in row-major axis order.
func (m *Matrix) Each(fn func(row, col string, c Cell)) {
	for _, r := range m.rows {
		for _, c := range m.cols {
			fn(r, c, m.cells[r][c])
		}
	}
}

// MarshalJSON writes the matrix as a nested object in axis order.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range m.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(r))
		buf.WriteString(":{")
		for j, c := range m.cols {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Quote(c))
			buf.WriteByte(':')
			b, err := m.cells[r][c].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Scores pairs the forward and reverse matrices produced by one call.
type Scores struct {
	Forward *Matrix `json:"forward"`
	Reverse *Matrix `json:"reverse"`
}
