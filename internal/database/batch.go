package database

import "fmt"

// Tx is the handle passed to a Batch function. Its operations mutate the
// live tables with persistence deferred until the batch commits; the
// batch holds the store's write lock for its whole duration, so a Tx must
// not be retained or used from another goroutine.
type Tx struct {
	s *Store
}

// Batch runs fn with exclusive access to the table map and persists once
// when fn returns nil. If fn returns an error every mutation it made is
// rolled back and nothing is written, so multi-table writes either land
// together or not at all.
func (s *Store) Batch(fn func(tx *Tx) error) error {
	s.mu.Lock()
	snapshot := s.cloneTablesLocked()

	if err := fn(&Tx{s: s}); err != nil {
		s.tables = snapshot
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	return s.save()
}

func (s *Store) cloneTablesLocked() map[string][]Row {
	clone := make(map[string][]Row, len(s.tables))
	for name, rows := range s.tables {
		copied := make([]Row, len(rows))
		for i, row := range rows {
			copied[i] = row.clone()
		}
		clone[name] = copied
	}
	return clone
}

// Insert appends a row exactly as Store.Insert does, without persisting.
func (tx *Tx) Insert(table string, fields Row) (int64, error) {
	return tx.s.insertLocked(table, fields)
}

// Select mirrors Store.Select within the batch.
func (tx *Tx) Select(table string, where Filter) ([]Row, error) {
	rows, ok := tx.s.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", table, ErrNoTable)
	}

	result := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.matches(where) {
			result = append(result, row.clone())
		}
	}
	return result, nil
}

// Exists mirrors Store.Exists within the batch.
func (tx *Tx) Exists(table string, where Filter) (bool, error) {
	rows, ok := tx.s.tables[table]
	if !ok {
		return false, fmt.Errorf("table %q: %w", table, ErrNoTable)
	}

	for _, row := range rows {
		if row.matches(where) {
			return true, nil
		}
	}
	return false, nil
}
