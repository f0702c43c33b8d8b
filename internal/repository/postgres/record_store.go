package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/locus-core/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordTable holds the ordered headers of one logical table.
type recordTable struct {
	Name      string         `gorm:"primaryKey"`
	Headers   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
}

func (recordTable) TableName() string { return "record_tables" }

// recordRow is one row of a logical table. Cells are kept as a JSON object
// keyed by header; RecordKey mirrors the key column so duplicates are rejected
// by the database.
type recordRow struct {
	ID        uint              `gorm:"primaryKey;autoIncrement"`
	Sheet     string            `gorm:"not null;uniqueIndex:idx_record_rows_sheet_key"`
	RecordKey string            `gorm:"not null;uniqueIndex:idx_record_rows_sheet_key"`
	Cells     datatypes.JSONMap `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (recordRow) TableName() string { return "record_rows" }

type recordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *recordStore {
	return &recordStore{db: db}
}

func (s *recordStore) EnsureTable(ctx context.Context, table domain.Table) error {
	headers, err := json.Marshal(table.Headers)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&recordTable{Name: table.Name, Headers: datatypes.JSON(headers)}).Error
}

func (s *recordStore) headers(ctx context.Context, table string) ([]string, error) {
	var t recordTable
	err := s.db.WithContext(ctx).First(&t, "name = ?", table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTable, table)
	}
	if err != nil {
		return nil, err
	}

	var headers []string
	if err := json.Unmarshal(t.Headers, &headers); err != nil {
		return nil, fmt.Errorf("decode headers of %s: %w", table, err)
	}
	return headers, nil
}

func (s *recordStore) ReadAll(ctx context.Context, table string) ([]domain.Row, error) {
	headers, err := s.headers(ctx, table)
	if err != nil {
		return nil, err
	}

	var rows []recordRow
	if err := s.db.WithContext(ctx).Where("sheet = ?", table).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		row := make(domain.Row, len(headers))
		for _, h := range headers {
			row[h] = cellString(r.Cells[h])
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *recordStore) ReadColumn(ctx context.Context, table, column string) ([]string, error) {
	if _, err := s.headers(ctx, table); err != nil {
		return nil, err
	}

	var values []string
	err := s.db.WithContext(ctx).
		Raw(`SELECT COALESCE(cells ->> ?, '') FROM record_rows WHERE sheet = ? ORDER BY id`, column, table).
		Scan(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (s *recordStore) Append(ctx context.Context, table string, row domain.Row) error {
	headers, err := s.headers(ctx, table)
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

	cells := make(datatypes.JSONMap, len(headers))
	for _, h := range headers {
		cells[h] = row[h]
	}

	err = s.db.WithContext(ctx).Create(&recordRow{Sheet: table, RecordKey: key, Cells: cells}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, key)
	}
	return err
}

func (s *recordStore) UpdateCell(ctx context.Context, table, keyColumn, key, column, value string) error {
	headers, err := s.headers(ctx, table)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r recordRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("sheet = ? AND TRIM(cells ->> ?) = ?", table, keyColumn, strings.TrimSpace(key)).
			Order("id").
			First(&r).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecordNotFound
		}
		if err != nil {
			return err
		}

		r.Cells[column] = value
		if len(headers) > 0 && column == headers[0] {
			r.RecordKey = strings.TrimSpace(value)
		}
		return tx.Save(&r).Error
	})
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
