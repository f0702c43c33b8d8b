// Package workbook implements the record store over a single spreadsheet
// file. Each table is a sheet whose first row holds the column headers.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dom/locus-core/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Store keeps the workbook in memory and writes it back to path after every
// mutation. An empty path keeps the workbook purely in memory.
type Store struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// Open loads the workbook at path, creating an empty one if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return &Store{file: excelize.NewFile()}, nil
	}

	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		f, err = excelize.NewFile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Store{file: f, path: path}, nil
}

// NewInMemory returns a store that is never written to disk.
func NewInMemory() *Store {
	s, _ := Open("")
	return s
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *Store) EnsureTable(_ context.Context, table domain.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.file.GetSheetIndex(table.Name)
	if err != nil {
		return fmt.Errorf("lookup sheet %s: %w", table.Name, err)
	}
	if idx >= 0 {
		return nil
	}

	if _, err := s.file.NewSheet(table.Name); err != nil {
		return fmt.Errorf("create sheet %s: %w", table.Name, err)
	}
	headers := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		headers[i] = h
	}
	if err := s.file.SetSheetRow(table.Name, "A1", &headers); err != nil {
		return fmt.Errorf("write headers %s: %w", table.Name, err)
	}
	return s.save()
}

func (s *Store) ReadAll(_ context.Context, table string) ([]domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	headers, rows, err := s.sheet(table)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Row, 0, len(rows))
	for _, cells := range rows {
		if isBlank(cells) {
			continue
		}
		row := make(domain.Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) ReadColumn(_ context.Context, table, column string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	headers, rows, err := s.sheet(table)
	if err != nil {
		return nil, err
	}
	col := indexOf(headers, column)
	if col < 0 {
		return nil, fmt.Errorf("column %s not found in %s", column, table)
	}

	values := make([]string, 0, len(rows))
	for _, cells := range rows {
		if col < len(cells) {
			values = append(values, cells[col])
		}
	}
	return values, nil
}

func (s *Store) Append(_ context.Context, table string, row domain.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	headers, rows, err := s.sheet(table)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return fmt.Errorf("%w: %s has no headers", domain.ErrUnknownTable, table)
	}

	key := strings.TrimSpace(row[headers[0]])
	if key == "" {
		return fmt.Errorf("%w: %s requires a value", domain.ErrValidation, headers[0])
	}
	for _, cells := range rows {
		if len(cells) > 0 && strings.TrimSpace(cells[0]) == key {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, key)
		}
	}

	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = row[h]
	}
	// header row + existing rows + the new one
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+2)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(table, cell, &values); err != nil {
		return fmt.Errorf("append row to %s: %w", table, err)
	}
	return s.save()
}

func (s *Store) UpdateCell(_ context.Context, table, keyColumn, key, column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	headers, rows, err := s.sheet(table)
	if err != nil {
		return err
	}
	keyCol := indexOf(headers, keyColumn)
	valueCol := indexOf(headers, column)
	if keyCol < 0 || valueCol < 0 {
		return fmt.Errorf("columns %s/%s not found in %s", keyColumn, column, table)
	}

	key = strings.TrimSpace(key)
	for i, cells := range rows {
		if keyCol >= len(cells) || strings.TrimSpace(cells[keyCol]) != key {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(valueCol+1, i+2)
		if err != nil {
			return err
		}
		if err := s.file.SetCellStr(table, cell, value); err != nil {
			return fmt.Errorf("update %s!%s: %w", table, cell, err)
		}
		return s.save()
	}
	return domain.ErrRecordNotFound
}

// sheet returns the trimmed headers and the data rows of a table. Callers
// must hold s.mu.
func (s *Store) sheet(table string) ([]string, [][]string, error) {
	idx, err := s.file.GetSheetIndex(table)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup sheet %s: %w", table, err)
	}
	if idx < 0 {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrUnknownTable, table)
	}

	rows, err := s.file.GetRows(table)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, rows[1:], nil
}

// save must be called with s.mu held.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func indexOf(headers []string, column string) int {
	for i, h := range headers {
		if h == column {
			return i
		}
	}
	return -1
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
