package repository

import (
	"fmt"

	"github.com/okian/octofit/internal/domain/record"
)

// Tx is a view of the store valid only inside View or Update.
type Tx struct {
	s        *Store
	writable bool
}

// List returns copies of all documents in collection, in insertion order.
func (tx *Tx) List(collection string) []record.Record {
	docs := tx.s.docs[collection]
	out := make([]record.Record, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out
}

// Get returns a copy of the document with id.
func (tx *Tx) Get(collection, id string) (record.Record, error) {
	i := tx.index(collection, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return tx.s.docs[collection][i].Clone(), nil
}

// Find returns a copy of the first document match accepts.
func (tx *Tx) Find(collection string, match func(record.Record) bool) (record.Record, bool) {
	for _, d := range tx.s.docs[collection] {
		if match(d) {
			return d.Clone(), true
		}
	}
	return nil, false
}

// Insert appends doc, assigning an "_id" when it has none, and returns the
// stored copy.
func (tx *Tx) Insert(collection string, doc record.Record) (record.Record, error) {
	if !tx.writable {
		return nil, ErrReadOnly
	}
	doc = doc.Clone()
	if doc == nil {
		doc = record.Record{}
	}
	id, ok := doc.ID()
	if !ok {
		id = tx.s.newID()
		doc[record.FieldID] = id
	}
	if tx.index(collection, id) >= 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateID, collection, id)
	}
	tx.s.docs[collection] = append(tx.s.docs[collection], doc)
	return doc.Clone(), nil
}

// Replace swaps the document with the same id for doc.
func (tx *Tx) Replace(collection string, doc record.Record) error {
	if !tx.writable {
		return ErrReadOnly
	}
	id, ok := doc.ID()
	if !ok {
		return fmt.Errorf("%w: document has no id", ErrNotFound)
	}
	i := tx.index(collection, id)
	if i < 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	tx.s.docs[collection][i] = doc.Clone()
	return nil
}

// UpdateEach applies fn to a copy of every document and stores the copies
// fn reports as changed. It returns the number of changed documents.
func (tx *Tx) UpdateEach(collection string, fn func(record.Record) bool) (int, error) {
	if !tx.writable {
		return 0, ErrReadOnly
	}
	changed := 0
	for i, d := range tx.s.docs[collection] {
		cp := d.Clone()
		if fn(cp) {
			tx.s.docs[collection][i] = cp
			changed++
		}
	}
	return changed, nil
}

func (tx *Tx) index(collection, id string) int {
	for i, d := range tx.s.docs[collection] {
		if did, ok := d.ID(); ok && did == id {
			return i
		}
	}
	return -1
}
