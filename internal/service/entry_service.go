package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/idgen"
	"github.com/dom/locus-core/internal/metrics"
)

const (
	EntryIncome = "income"
	EntryCost   = "cost"
	EntryLead   = "lead"

	entryDateLayout = "2006-01-02"
	statusPending   = "Pending"
)

type entryKind struct {
	table  domain.Table
	prefix string
	// roles allowed to create the entry; empty means any session.
	roles []domain.Role
}

var entryKinds = map[string]entryKind{
	EntryIncome: {table: domain.IncomeTable, prefix: "INC"},
	EntryCost:   {table: domain.CostTable, prefix: "CST"},
	EntryLead: {
		table:  domain.LeadsTable,
		prefix: "LEAD",
		roles:  []domain.Role{domain.RoleSales, domain.RoleSalesManager, domain.RoleAdmin},
	},
}

// EntryService appends business records (income, cost, leads) under a newly
// minted sequential identifier.
type EntryService struct {
	ids     *idgen.Generator
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

type EntryOption func(*EntryService)

// WithEntryClock overrides the clock used for entry dates and timestamps.
func WithEntryClock(now func() time.Time) EntryOption {
	return func(s *EntryService) {
		s.now = now
	}
}

func NewEntryService(ids *idgen.Generator, m *metrics.Metrics, loc *time.Location, opts ...EntryOption) *EntryService {
	if loc == nil {
		loc = time.UTC
	}
	s := &EntryService{ids: ids, metrics: m, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends one entry of kind and returns its identifier. Branch and
// Date default to the actor's branch and today. Leads are always dated today.
func (s *EntryService) Create(ctx context.Context, actor *domain.Session, kind string, fields map[string]string) (string, error) {
	k, ok := entryKinds[strings.ToLower(kind)]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownTable, kind)
	}
	if actor == nil || !allowed(k.roles, domain.Role(actor.Role)) {
		return "", domain.ErrUnauthorized
	}

	now := s.now().In(s.loc)
	branch := strings.TrimSpace(fields["Branch"])
	if branch == "" {
		branch = actor.Branch
	}

	date := now
	if raw := strings.TrimSpace(fields["Date"]); raw != "" && k.prefix != "LEAD" {
		parsed, err := time.ParseInLocation(entryDateLayout, raw, s.loc)
		if err != nil {
			return "", fmt.Errorf("%w: date must look like %s", domain.ErrValidation, entryDateLayout)
		}
		date = parsed
	}

	build := func(id string) domain.Row {
		row := make(domain.Row, len(k.table.Headers))
		for _, h := range k.table.Headers {
			if v, ok := fields[h]; ok {
				row[h] = v
			}
		}
		row[k.table.KeyColumn()] = id
		row["Branch"] = branch
		row["Date"] = date.Format(entryDateLayout)
		row["EmployeeCode"] = actor.Code
		row["EmployeeName"] = actor.Name
		row["Status"] = statusPending
		row["Timestamp"] = now.Format(time.RFC3339)
		if k.table.Has("Amount") {
			row["Amount"] = normalizeAmount(fields["Amount"])
		}
		return row
	}

	id, err := s.ids.Mint(ctx, k.prefix, branch, date, k.table.Name, build)
	s.metrics.RecordIdentifier(k.table.Name, err == nil)
	if err != nil {
		return "", err
	}

	slog.Info("Entry created", "kind", kind, "id", id, "by", actor.Code)
	return id, nil
}

func allowed(roles []domain.Role, role domain.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// normalizeAmount renders amount as a plain number, using 0 for anything
// that does not parse.
func normalizeAmount(amount string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
