// Package idgen mints human-readable sequential identifiers of the form
// PART-ddMMyy-NNN and employee codes of the form empNNN.
package idgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/repository"
)

const (
	fallbackPartition  = "XXX"
	employeeCodePrefix = "emp"
	dateLayout         = "020106"
)

type Generator struct {
	store repository.RecordStore
	loc   *time.Location
	locks *keyedMutex

	// issued is the highest sequence handed out per lock key by this process.
	mu     sync.Mutex
	issued map[string]int
}

type Option func(*Generator)

// WithLocation sets the time zone used to render the date part.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

func New(store repository.RecordStore, opts ...Option) *Generator {
	g := &Generator{
		store:  store,
		loc:    time.UTC,
		locks:  newKeyedMutex(),
		issued: make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PartitionCode returns the first three characters of key in upper case, or
// XXX when key is empty.
func PartitionCode(key string) string {
	if key == "" {
		return fallbackPartition
	}
	runes := []rune(key)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

// Prefix builds the PART-ddMMyy- prefix shared by every ID of one partition
// and day.
func Prefix(partitionKey string, date time.Time) string {
	return PartitionCode(partitionKey) + "-" + date.Format(dateLayout) + "-"
}

// NextID returns the next identifier for partitionKey on date in table. The
// entity prefix (INC, CST, LEAD) is accepted for logging only and is not part
// of the identifier.
func (g *Generator) NextID(ctx context.Context, prefix, partitionKey string, date time.Time, table string) (string, error) {
	t, err := lookupTable(table)
	if err != nil {
		return "", err
	}
	idPrefix := Prefix(partitionKey, date.In(g.loc))
	key := t.Name + "/" + idPrefix

	unlock := g.locks.Lock(key)
	defer unlock()

	id, err := g.reserve(ctx, key, t, idPrefix, false)
	if err != nil {
		return "", err
	}
	slog.Debug("Minted identifier", "entity", prefix, "table", t.Name, "id", id)
	return id, nil
}

// NextEmployeeCode returns the next empNNN code for the Employees table.
func (g *Generator) NextEmployeeCode(ctx context.Context) (string, error) {
	key := domain.EmployeesTable.Name + "/" + employeeCodePrefix

	unlock := g.locks.Lock(key)
	defer unlock()

	return g.reserve(ctx, key, domain.EmployeesTable, employeeCodePrefix, true)
}

// Mint reserves the next identifier and appends the row produced by build
// while the partition is still locked. A duplicate key at append means
// another writer took the same identifier and is reported as
// domain.ErrIDConflict.
func (g *Generator) Mint(ctx context.Context, prefix, partitionKey string, date time.Time, table string, build func(id string) domain.Row) (string, error) {
	t, err := lookupTable(table)
	if err != nil {
		return "", err
	}
	idPrefix := Prefix(partitionKey, date.In(g.loc))
	key := t.Name + "/" + idPrefix

	unlock := g.locks.Lock(key)
	defer unlock()

	id, err := g.reserve(ctx, key, t, idPrefix, false)
	if err != nil {
		return "", err
	}
	if err := g.append(ctx, t.Name, id, build(id)); err != nil {
		return "", err
	}
	slog.Info("Appended record", "entity", prefix, "table", t.Name, "id", id)
	return id, nil
}

// MintEmployee reserves the next employee code and appends the row produced
// by build under the same lock.
func (g *Generator) MintEmployee(ctx context.Context, build func(code string) domain.Row) (string, error) {
	table := domain.EmployeesTable
	key := table.Name + "/" + employeeCodePrefix

	unlock := g.locks.Lock(key)
	defer unlock()

	code, err := g.reserve(ctx, key, table, employeeCodePrefix, true)
	if err != nil {
		return "", err
	}
	if err := g.append(ctx, table.Name, code, build(code)); err != nil {
		return "", err
	}
	return code, nil
}

// lookupTable resolves a table name to its canonical definition so that
// lock and high-water keys do not depend on the caller's spelling.
func lookupTable(name string) (domain.Table, error) {
	t, ok := domain.TableByName(name)
	if !ok {
		return domain.Table{}, fmt.Errorf("%w: %s", domain.ErrUnknownTable, name)
	}
	return t, nil
}

// reserve scans the key column of t and returns the next value after both
// the stored maximum and anything this process already handed out. Callers
// must hold the lock for key.
func (g *Generator) reserve(ctx context.Context, key string, t domain.Table, idPrefix string, foldCase bool) (string, error) {
	values, err := g.store.ReadColumn(ctx, t.Name, t.KeyColumn())
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", t.Name, err)
	}

	last := MaxSuffix(values, idPrefix, foldCase)

	g.mu.Lock()
	if n := g.issued[key]; n > last {
		last = n
	}
	next := last + 1
	g.issued[key] = next
	g.mu.Unlock()

	return fmt.Sprintf("%s%03d", idPrefix, next), nil
}

func (g *Generator) append(ctx context.Context, table, id string, row domain.Row) error {
	err := g.store.Append(ctx, table, row)
	if errors.Is(err, domain.ErrDuplicateRecord) {
		slog.Warn("Identifier already taken", "table", table, "id", id)
		return fmt.Errorf("%w: %s", domain.ErrIDConflict, id)
	}
	if err != nil {
		return fmt.Errorf("append to %s: %w", table, err)
	}
	return nil
}

// MaxSuffix returns the largest numeric suffix among values that start with
// prefix. Suffixes are read like a leading integer; values whose suffix does
// not start with a number are ignored.
func MaxSuffix(values []string, prefix string, foldCase bool) int {
	highest := 0
	for _, v := range values {
		if v == "" || len(v) < len(prefix) {
			continue
		}
		head := v[:len(prefix)]
		if foldCase {
			if !strings.EqualFold(head, prefix) {
				continue
			}
		} else if head != prefix {
			continue
		}
		n, ok := leadingInt(v[len(prefix):])
		if ok && n > highest {
			highest = n
		}
	}
	return highest
}

// leadingInt parses the integer at the start of s, skipping leading spaces
// and stopping at the first non-digit.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
