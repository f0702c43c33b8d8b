package domain

import "strings"

// Row is one record of a table, keyed by column header.
type Row map[string]string

// Table describes a logical table of the record store. The first header is
// the key column holding the record identifier.
type Table struct {
	Name    string
	Headers []string
}

// KeyColumn returns the identifier column of the table.
func (t Table) KeyColumn() string {
	if len(t.Headers) == 0 {
		return ""
	}
	return t.Headers[0]
}

// Has reports whether the table has the given column.
func (t Table) Has(column string) bool {
	for _, h := range t.Headers {
		if h == column {
			return true
		}
	}
	return false
}

var (
	EmployeesTable = Table{
		Name:    "Employees",
		Headers: []string{ColumnCode, ColumnPassword, ColumnName, ColumnBranch, ColumnRole, ColumnIsActive},
	}
	IncomeTable = Table{
		Name: "Income",
		Headers: []string{"Entry_ID", "Branch", "Date", "Service_Name", "Amount", "Payment_Method",
			"Notes", "EmployeeCode", "EmployeeName", "Status", "Timestamp"},
	}
	CostTable = Table{
		Name: "Cost",
		Headers: []string{"Entry_ID", "Branch", "Date", "Cost_Name", "Amount", "Payment_Method",
			"Notes", "EmployeeCode", "EmployeeName", "Status", "Timestamp"},
	}
	LeadsTable = Table{
		Name: "Leads",
		Headers: []string{"Lead_ID", "Branch", "Date", "Name", "Phone", "Source",
			"Notes", "EmployeeCode", "EmployeeName", "Status", "Timestamp"},
	}
)

// AllTables lists the tables the record store is bootstrapped with.
var AllTables = []Table{EmployeesTable, IncomeTable, CostTable, LeadsTable}

// TableByName looks up a built-in table, ignoring case.
func TableByName(name string) (Table, bool) {
	for _, t := range AllTables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Table{}, false
}
