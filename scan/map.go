package scan

type mapScanner[I, R any] struct {
	inner Scanner[I]
	fn    func(I) R
}

func (m *mapScanner[I, R]) Scan(until *int) (R, int, bool) {
	item, index, ok := m.inner.Scan(until)
	if !ok {
		var zero R
		return zero, 0, false
	}
	return m.fn(item), index, true
}

// Map transforms each item a scanner yields, preserving its index sequence.
func Map[I, R any](s Scanner[I], fn func(I) R) Scanner[R] {
	return &mapScanner[I, R]{inner: s, fn: fn}
}
