package function

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense row-major matrix used for Jacobians and Hessians.
//
// It wraps a gonum *mat.Dense and adds the size checks used by every
// function in this package. Zero-sized matrices are legal so that functions
// with no inputs or no outputs still have a well-formed Jacobian; gonum
// rejects those, so they carry no Dense.
type Matrix struct {
	rows, cols int
	dense      *mat.Dense // nil when rows or cols is zero
}

// NewMatrix allocates a zero-filled rows x cols matrix.
// Negative dimensions are clamped to zero.
func NewMatrix(rows, cols int) *Matrix {
	rows = max(rows, 0)
	cols = max(cols, 0)
	m := &Matrix{rows: rows, cols: cols}
	if rows > 0 && cols > 0 {
		m.dense = mat.NewDense(rows, cols, nil)
	}
	return m
}

// NewMatrixFromRows builds a matrix from a slice of equally sized rows.
func NewMatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", ErrDimensionMismatch, i, len(r), cols)
		}
		if m.dense != nil {
			m.dense.SetRow(i, r)
		}
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Dense returns the underlying gonum matrix, or nil for a zero-sized matrix.
// Writes through it are visible in m.
func (m *Matrix) Dense() *mat.Dense { return m.dense }

// At returns the element at (i, j). It panics on out-of-range indices, like slice indexing.
func (m *Matrix) At(i, j int) float64 {
	m.mustIndex(i, j)
	return m.dense.At(i, j)
}

// Set writes v at (i, j). It panics on out-of-range indices, like slice indexing.
func (m *Matrix) Set(i, j int, v float64) {
	m.mustIndex(i, j)
	m.dense.Set(i, j, v)
}

// Row returns row i as a slice aliasing the matrix storage.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("function: row %d out of range [0, %d)", i, m.rows))
	}
	if m.dense == nil {
		return []float64{}
	}
	return m.dense.RawRowView(i)
}

// SetCol writes column j from v (len(v) must equal Rows()).
func (m *Matrix) SetCol(j int, v []float64) {
	if len(v) != m.rows {
		panic(fmt.Sprintf("function: column length %d, want %d", len(v), m.rows))
	}
	if j < 0 || j >= m.cols {
		panic(fmt.Sprintf("function: column %d out of range [0, %d)", j, m.cols))
	}
	if m.dense != nil {
		m.dense.SetCol(j, v)
	}
}

// Zero resets every element to 0.
func (m *Matrix) Zero() {
	if m.dense != nil {
		m.dense.Zero()
	}
}

// CopyFrom copies src into m. Shapes must match.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if src.rows != m.rows || src.cols != m.cols {
		return fmt.Errorf("%w: copy %dx%d into %dx%d", ErrDimensionMismatch, src.rows, src.cols, m.rows, m.cols)
	}
	if m.dense != nil {
		m.dense.Copy(src.dense)
	}
	return nil
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols}
	if m.dense != nil {
		c.dense = mat.DenseCopyOf(m.dense)
	}
	return c
}

// String renders the matrix as "[rows,cols]((a,b),(c,d))".
func (m *Matrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d,%d](", m.rows, m.cols)
	for i, nI := 0, m.rows; i < nI; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		for j, v := range m.Row(i) {
			if j > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%g", v)
		}
		b.WriteString(")")
	}
	b.WriteString(")")
	return b.String()
}

func (m *Matrix) mustIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("function: index (%d, %d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}
