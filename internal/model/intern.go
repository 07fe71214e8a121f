package model

// Handle stands in for an interned string. Handles are only meaningful to
// the Interner that produced them and are never shared across tables.
type Handle uint32

// Interner deduplicates repeated cell values. Result sets tend to repeat
// heavily (status columns, foreign keys, NULLs), so rows store handles
// instead of strings. Entries live for the Interner's whole lifetime.
type Interner struct {
	lookup map[string]Handle
	strs   []string
}

func NewInterner() *Interner {
	return &Interner{lookup: make(map[string]Handle)}
}

// Intern returns the existing handle when s was seen before, otherwise
// allocates a new one. O(1) amortized.
func (in *Interner) Intern(s string) Handle {
	if h, ok := in.lookup[s]; ok {
		return h
	}
	h := Handle(len(in.strs))
	in.strs = append(in.strs, s)
	in.lookup[s] = h
	return h
}

// Resolve returns the string behind h. Handles from a different Interner are
// a programming error, not a runtime condition; out-of-range handles panic.
func (in *Interner) Resolve(h Handle) string {
	return in.strs[h]
}

// Len reports how many distinct strings are interned.
func (in *Interner) Len() int {
	return len(in.strs)
}
