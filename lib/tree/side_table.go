package tree

// sideTable keeps per-node balance metadata outside the arena, keyed by node
// handle. Slots are recycled by the arena, so a balancer must overwrite the
// entry of every node it sees inserted.
type sideTable[T any] struct {
	vals []T
}

func (st *sideTable[T]) get(h nodeHandle) T {
	if h < 0 || int(h) >= len(st.vals) {
		var zero T
		return zero
	}
	return st.vals[h]
}

func (st *sideTable[T]) set(h nodeHandle, v T) {
	if h < 0 {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] side table set on nil handle")
	}
	if n := int(h) + 1; n > len(st.vals) {
		if n <= cap(st.vals) {
			st.vals = st.vals[:n]
		} else {
			grown := make([]T, n, max(n, cap(st.vals)<<1))
			copy(grown, st.vals)
			st.vals = grown
		}
	}
	st.vals[h] = v
}

func (st *sideTable[T]) reset() {
	clear(st.vals)
	st.vals = st.vals[:0]
}
