package types

// GrowSlice returns a slice holding the contents of myslice with a length of
// at least newCap, new entries are set to fill
func GrowSlice[T any](myslice []T, newCap int, fill T) (biggerSlice []T) {
	l := len(myslice)
	if l >= newCap {
		return myslice
	}
	if cap(myslice) >= newCap {
		biggerSlice = myslice[:newCap]
	} else {
		// amortize repeated single-step growth
		c := 2 * cap(myslice)
		if c < newCap {
			c = newCap
		}
		biggerSlice = make([]T, newCap, c)
		copy(biggerSlice, myslice)
	}
	for i := l; i < newCap; i++ {
		biggerSlice[i] = fill
	}
	return
}
