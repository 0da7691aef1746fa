package series

import (
	"github.com/arloliu/chartdata/format"
	"github.com/arloliu/chartdata/numeric"
)

// PointInfo is the value bundle of one row, used by hit-testing and tooltips.
type PointInfo[TX numeric.Number, TY numeric.Number] struct {
	Kind  format.SeriesType
	Index int
	X     TX
	// Y is the role's primary value: Y, Close or Median.
	Y TY
	// Roles and Values list every Y-role column of the row in column order.
	Roles  []ColumnRole
	Values []TY
}

// EmptyPointInfo returns the sentinel for a missing row: Index is -1.
func EmptyPointInfo[TX numeric.Number, TY numeric.Number]() PointInfo[TX, TY] {
	return PointInfo[TX, TY]{Index: -1}
}

// IsEmpty reports whether p is the missing-row sentinel.
func (p PointInfo[TX, TY]) IsEmpty() bool { return p.Index < 0 }

// Value returns the value of role, or false if the series type has no such column.
func (p PointInfo[TX, TY]) Value(role ColumnRole) (TY, bool) {
	for i, r := range p.Roles {
		if r == role {
			return p.Values[i], true
		}
	}

	var zero TY

	return zero, false
}
