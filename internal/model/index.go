package model

// EntryKey identifies one indexed utterance.
type EntryKey struct {
	RouteName string
	Utterance string
}

// IndexEntry is one utterance embedding stored in a vector index.
type IndexEntry struct {
	RouteName string
	Utterance string
	Vector    []float32
}

// Key returns the identity of the entry.
func (e IndexEntry) Key() EntryKey {
	return EntryKey{RouteName: e.RouteName, Utterance: e.Utterance}
}

// Dim returns the vector dimension.
func (e IndexEntry) Dim() int {
	return len(e.Vector)
}

// Clone copies the vector so the result shares no memory with e.
func (e IndexEntry) Clone() IndexEntry {
	e.Vector = append([]float32(nil), e.Vector...)
	return e
}

// Hit is a search result.
type Hit struct {
	Entry IndexEntry
	Score float64 // Cosine similarity in [-1, 1]
}
