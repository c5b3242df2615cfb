package yamljson

import (
	"fmt"
	"sort"
)

// Diagnostic is a positioned parse error. Line is 0-based, Col is the
// 0-based column; the printed form uses a 1-based column.
type Diagnostic struct {
	Line int
	Col  int
	Msg  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("YAML(%d,%d): %s", d.Line, d.Col+1, d.Msg)
}

// SortDiagnostics orders diagnostics by position.
func SortDiagnostics(ds []Diagnostic) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].Line != ds[j].Line {
			return ds[i].Line < ds[j].Line
		}
		return ds[i].Col < ds[j].Col
	})
}
