package column

// View is a read-only window over a column's backing array.
//
// Logical row i lives at Data[(First+i) mod len(Data)]. For a growable column First is
// always 0 and len(Data) may exceed Count (spare capacity); for a full fifo column the
// rows wrap around the end of Data. Always bound reads by Count, never by len(Data).
type View[T any] struct {
	Data  []T
	First int
	Count int
}

// Len returns the number of readable rows.
func (v View[T]) Len() int { return v.Count }

// At returns logical row i. The caller guarantees 0 <= i < Count.
func (v View[T]) At(i int) T {
	idx := v.First + i
	if idx >= len(v.Data) {
		idx -= len(v.Data)
	}

	return v.Data[idx]
}

// Segments returns the rows as at most two contiguous slices in logical order.
// tail is nil when the rows do not wrap.
func (v View[T]) Segments() (head, tail []T) {
	if v.Count == 0 {
		return nil, nil
	}

	end := v.First + v.Count
	if end <= len(v.Data) {
		return v.Data[v.First:end], nil
	}

	return v.Data[v.First:], v.Data[:end-len(v.Data)]
}
