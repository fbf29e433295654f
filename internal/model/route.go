package model

// Route is a named destination declared by its example utterances.
type Route struct {
	Name       string   // Unique across the registry
	Utterances []string // Reference phrasings, must be non-empty at sync time
	Threshold  *float64 // Per-route minimum similarity; nil means router default
}

// Clone returns a deep copy.
func (r Route) Clone() Route {
	out := Route{Name: r.Name, Utterances: append([]string(nil), r.Utterances...)}
	if r.Threshold != nil {
		th := *r.Threshold
		out.Threshold = &th
	}
	return out
}
