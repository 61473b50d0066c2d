package record

// Ref is a reference to a related record as it appears on the wire: either a
// bare identifier or an embedded, possibly partial, record.
type Ref struct {
	id       string
	embedded Record
}

// RefOf classifies a decoded JSON value. Null and unsupported shapes report false.
func RefOf(v any) (Ref, bool) {
	switch t := v.(type) {
	case map[string]any:
		rec := Record(t)
		id, _ := rec.ID()
		return Ref{id: id, embedded: rec}, true
	case Record:
		id, _ := t.ID()
		return Ref{id: id, embedded: t}, true
	}
	if id, ok := scalarID(v); ok {
		return Ref{id: id}, true
	}
	return Ref{}, false
}

// IDRef builds a bare identifier reference.
func IDRef(id string) Ref { return Ref{id: id} }

// EmbeddedRef builds a reference carrying an embedded record.
func EmbeddedRef(r Record) Ref {
	id, _ := r.ID()
	return Ref{id: id, embedded: r}
}

// ID returns the referenced identifier; empty when an embedded record has none.
func (r Ref) ID() string { return r.id }

// Embedded returns the embedded record, if the reference carried one.
func (r Ref) Embedded() (Record, bool) {
	return r.embedded, r.embedded != nil
}

// Matches reports whether the reference points at id.
func (r Ref) Matches(id string) bool {
	return id != "" && r.id == id
}

// Label picks a display value: the first non-empty embedded field in fields,
// else the identifier.
func (r Ref) Label(fields ...string) (string, bool) {
	if r.embedded != nil {
		if s, ok := r.embedded.First(fields...); ok {
			return s, true
		}
	}
	return r.id, r.id != ""
}
