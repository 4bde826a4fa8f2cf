package categorize

// Slot holds an optional value that can only be set once. Walking a
// hierarchy from the absolute root down and filling slots with SetIfAbsent
// makes the occurrence closest to the absolute root win.
type Slot[T any] struct {
	v   T
	set bool
}

// SetIfAbsent stores v unless a value was stored before. It reports
// whether v was stored.
func (s *Slot[T]) SetIfAbsent(v T) bool {
	if s.set {
		return false
	}
	s.v, s.set = v, true
	return true
}

// Get returns the stored value and whether one was stored.
func (s *Slot[T]) Get() (T, bool) {
	return s.v, s.set
}

// OneOrMany accumulates values, distinguishing a single value from a list
// of two or more.
type OneOrMany[T any] struct {
	one  T
	many []T
	n    int
}

// Push appends a value, keeping insertion order.
func (o *OneOrMany[T]) Push(v T) {
	switch o.n {
	case 0:
		o.one = v
	case 1:
		o.many = []T{o.one, v}
		var zero T
		o.one = zero
	default:
		o.many = append(o.many, v)
	}
	o.n++
}

// Len returns the number of values pushed.
func (o *OneOrMany[T]) Len() int { return o.n }

// Single returns the value when exactly one was pushed.
func (o *OneOrMany[T]) Single() (T, bool) {
	return o.one, o.n == 1
}

// All returns the pushed values in insertion order.
func (o *OneOrMany[T]) All() []T {
	switch o.n {
	case 0:
		return nil
	case 1:
		return []T{o.one}
	default:
		return append([]T(nil), o.many...)
	}
}
