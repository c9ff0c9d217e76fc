package log

import (
	"finance/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldYearMonth   = "year_month"
	FieldIndex       = "index"
	FieldType        = "type"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldFile        = "file"
	FieldLine        = "line"
	FieldSection     = "section"
	FieldBackend     = "backend"
	FieldBudgets     = "budgets"
	FieldTransaction = "transactions"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentService = "service"
	ComponentStorage = "storage"
	ComponentExport  = "export"
)

// Operations defines standard operation names
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpLoad   = "load"
	OpSave   = "save"
	OpExport = "export"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMonth adds the reporting month
func (f LogFields) WithMonth(ym core.YearMonth) LogFields {
	f[FieldYearMonth] = ym.String()
	return f
}

// WithTransaction adds transaction-related fields. Descriptions are not logged.
func (f LogFields) WithTransaction(t core.Transaction) LogFields {
	f[FieldType] = t.Type.String()
	f[FieldDate] = t.Date.String()
	f[FieldAmount] = core.FormatAmount(t.Amount)
	f[FieldCategory] = t.Category
	return f
}

// WithFileLine adds the position of a stored record
func (f LogFields) WithFileLine(file string, line int) LogFields {
	f[FieldFile] = file
	f[FieldLine] = line
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
