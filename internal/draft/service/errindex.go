package service

import (
	catalog "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/catalog/schema"
	"github.com/smallbiznis/mystore/internal/draft/domain"
)

// errorIndex keeps the last failed validation addressed by row identity,
// so errors stay on their row when rows are added or removed afterwards.
type errorIndex struct {
	scalar map[string]string
	rows   map[domain.LocalID]map[string]string
}

// indexErrors translates positional paths using the row order that was
// submitted.
func indexErrors(fields catalog.FieldErrors, submitted []domain.LocalID) errorIndex {
	idx := errorIndex{
		scalar: map[string]string{},
		rows:   map[domain.LocalID]map[string]string{},
	}
	for path, msg := range fields {
		i, field, ok := schema.ParseVariantPath(path)
		if !ok || i >= len(submitted) {
			idx.scalar[path] = msg
			continue
		}
		id := submitted[i]
		if idx.rows[id] == nil {
			idx.rows[id] = map[string]string{}
		}
		idx.rows[id][field] = msg
	}
	return idx
}

// positional renders the index against the current row order.
func (e errorIndex) positional(current domain.Variants) catalog.FieldErrors {
	out := catalog.FieldErrors{}
	for path, msg := range e.scalar {
		out[path] = msg
	}
	for i, v := range current {
		for field, msg := range e.rows[v.LocalID] {
			out[schema.VariantPath(i, field)] = msg
		}
	}
	return out
}

func (e errorIndex) row(id domain.LocalID) map[string]string {
	out := map[string]string{}
	for field, msg := range e.rows[id] {
		out[field] = msg
	}
	return out
}

func (e *errorIndex) clearScalar(path string) {
	delete(e.scalar, path)
}

func (e *errorIndex) clearRowField(id domain.LocalID, field string) {
	if row, ok := e.rows[id]; ok {
		delete(row, field)
		if len(row) == 0 {
			delete(e.rows, id)
		}
	}
}

func (e *errorIndex) dropRow(id domain.LocalID) {
	delete(e.rows, id)
}
