package series

import (
	"fmt"

	"github.com/arloliu/chartdata/errs"
	"github.com/arloliu/chartdata/format"
)

// ColumnRole names one Y-role column of a series.
type ColumnRole uint8

const (
	RoleY ColumnRole = iota + 1
	RoleY1
	RoleZ
	RoleOpen
	RoleHigh
	RoleLow
	RoleClose
	RoleMedian
	RoleMinimum
	RoleLowerQuartile
	RoleUpperQuartile
	RoleMaximum
)

func (r ColumnRole) String() string {
	switch r {
	case RoleY:
		return "Y"
	case RoleY1:
		return "Y1"
	case RoleZ:
		return "Z"
	case RoleOpen:
		return "Open"
	case RoleHigh:
		return "High"
	case RoleLow:
		return "Low"
	case RoleClose:
		return "Close"
	case RoleMedian:
		return "Median"
	case RoleMinimum:
		return "Minimum"
	case RoleLowerQuartile:
		return "LowerQuartile"
	case RoleUpperQuartile:
		return "UpperQuartile"
	case RoleMaximum:
		return "Maximum"
	default:
		return "Unknown"
	}
}

// layout describes the Y-role columns owned by one series type.
type layout struct {
	roles []ColumnRole
	// y is the column used as "the" Y value by point search and row info.
	y int
	// ranged lists the columns scanned by windowed Y range queries.
	ranged []int
	// coalesce reports whether appends are buffered by default.
	coalesce bool
}

var layouts = map[format.SeriesType]layout{
	format.SeriesXY: {
		roles:  []ColumnRole{RoleY},
		y:      0,
		ranged: []int{0},
	},
	format.SeriesXYY: {
		roles:    []ColumnRole{RoleY, RoleY1},
		y:        0,
		ranged:   []int{0, 1},
		coalesce: true,
	},
	format.SeriesXYZ: {
		roles:    []ColumnRole{RoleY, RoleZ},
		y:        0,
		ranged:   []int{0},
		coalesce: true,
	},
	format.SeriesHLC: {
		roles:    []ColumnRole{RoleHigh, RoleLow, RoleClose},
		y:        2,
		ranged:   []int{0, 1},
		coalesce: true,
	},
	format.SeriesOHLC: {
		roles:    []ColumnRole{RoleOpen, RoleHigh, RoleLow, RoleClose},
		y:        3,
		ranged:   []int{1, 2},
		coalesce: true,
	},
	format.SeriesBox: {
		roles:  []ColumnRole{RoleMedian, RoleMinimum, RoleLowerQuartile, RoleUpperQuartile, RoleMaximum},
		y:      0,
		ranged: []int{1, 4},
	},
}

func layoutFor(kind format.SeriesType) (layout, error) {
	l, ok := layouts[kind]
	if !ok {
		return layout{}, fmt.Errorf("%w: %d", errs.ErrInvalidSeriesType, kind)
	}

	return l, nil
}

// Roles returns the Y-role columns of a series type in column order.
func Roles(kind format.SeriesType) ([]ColumnRole, error) {
	l, err := layoutFor(kind)
	if err != nil {
		return nil, err
	}

	return append([]ColumnRole(nil), l.roles...), nil
}

// indexOf returns the column index of role, or -1.
func (l layout) indexOf(role ColumnRole) int {
	for i, r := range l.roles {
		if r == role {
			return i
		}
	}

	return -1
}
