package codec

// TagTable maps the members of a small enum to fixed wire literals and back.
type TagTable[K comparable] struct {
	byKey map[K]string
	byTag map[string]K
}

// NewTagTable builds a table from key -> literal. Literals must be unique.
func NewTagTable[K comparable](tags map[K]string) TagTable[K] {
	t := TagTable[K]{byKey: make(map[K]string, len(tags)), byTag: make(map[string]K, len(tags))}
	for k, s := range tags {
		if _, dup := t.byTag[s]; dup {
			panic("codec: duplicate tag " + s)
		}
		t.byKey[k] = s
		t.byTag[s] = k
	}
	return t
}

// Tag returns the literal for k.
func (t TagTable[K]) Tag(k K) (string, bool) {
	s, ok := t.byKey[k]
	return s, ok
}

// Lookup returns the key for an exact literal.
func (t TagTable[K]) Lookup(s string) (K, bool) {
	k, ok := t.byTag[s]
	return k, ok
}

// Contains reports whether k has a literal.
func (t TagTable[K]) Contains(k K) bool {
	_, ok := t.byKey[k]
	return ok
}
