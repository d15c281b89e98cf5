package database

import "fmt"

// CreateTable adds an empty table and persists the snapshot. It fails
// with ErrTableExists if the name is taken.
func (s *Store) CreateTable(name string) error {
	s.mu.Lock()
	if _, ok := s.tables[name]; ok {
		s.mu.Unlock()
		return fmt.Errorf("table %q: %w", name, ErrTableExists)
	}
	s.tables[name] = []Row{}
	s.mu.Unlock()

	return s.save()
}

// ExistsTable reports whether the named table has been created.
func (s *Store) ExistsTable(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tables[name]
	return ok
}

// DropTable removes a table and all its rows.
func (s *Store) DropTable(name string) error {
	s.mu.Lock()
	if _, ok := s.tables[name]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("table %q: %w", name, ErrNoTable)
	}
	delete(s.tables, name)
	s.mu.Unlock()

	return s.save()
}

// ListTables returns the names of all tables in no particular order.
func (s *Store) ListTables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names
}

// Insert appends a row built from fields plus a store-assigned "id" equal
// to the table's current row count, then persists. The returned id is
// unique within the table for the store's lifetime because rows are never
// removed by the domain layer.
func (s *Store) Insert(table string, fields Row) (int64, error) {
	s.mu.Lock()
	id, err := s.insertLocked(table, fields)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}

	if err := s.save(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) insertLocked(table string, fields Row) (int64, error) {
	rows, ok := s.tables[table]
	if !ok {
		return 0, fmt.Errorf("table %q: %w", table, ErrNoTable)
	}

	id := int64(len(rows))
	row := make(Row, len(fields)+1)
	row["id"] = id
	for k, v := range fields {
		row[k] = normalizeField(v)
	}

	s.tables[table] = append(rows, row)
	return id, nil
}

// Select returns a copy of every row matching the filter, in insertion
// order. A nil filter matches all rows. Mutating the result does not
// affect store state.
func (s *Store) Select(table string, where Filter) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[table]
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

// Exists reports whether Select would return at least one row.
func (s *Store) Exists(table string, where Filter) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[table]
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

// Update merges patch into every row matching the filter and persists
// when at least one row changed. It returns the number of rows touched.
func (s *Store) Update(table string, where Filter, patch Row) (int, error) {
	s.mu.Lock()
	rows, ok := s.tables[table]
	if !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("table %q: %w", table, ErrNoTable)
	}

	count := 0
	for _, row := range rows {
		if row.matches(where) {
			for k, v := range patch {
				row[k] = normalizeField(v)
			}
			count++
		}
	}
	s.mu.Unlock()

	if count == 0 {
		return 0, nil
	}
	if err := s.save(); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes every row matching the filter and persists when at least
// one row was removed. It returns the number of rows removed.
func (s *Store) Delete(table string, where Filter) (int, error) {
	s.mu.Lock()
	rows, ok := s.tables[table]
	if !ok {
		s.mu.Unlock()
		return 0, fmt.Errorf("table %q: %w", table, ErrNoTable)
	}

	kept := rows[:0]
	for _, row := range rows {
		if !row.matches(where) {
			kept = append(kept, row)
		}
	}
	deleted := len(rows) - len(kept)
	s.tables[table] = kept
	s.mu.Unlock()

	if deleted == 0 {
		return 0, nil
	}
	if err := s.save(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// Count returns the number of rows matching the filter.
func (s *Store) Count(table string, where Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[table]
	if !ok {
		return 0, fmt.Errorf("table %q: %w", table, ErrNoTable)
	}

	count := 0
	for _, row := range rows {
		if row.matches(where) {
			count++
		}
	}
	return count, nil
}

func (r Row) matches(where Filter) bool {
	for k, want := range where {
		got, ok := r[k]
		if !ok || got != normalizeField(want) {
			return false
		}
	}
	return true
}

func (r Row) clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
