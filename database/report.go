package database

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/teami-app/teami-backend/errs"
)

/*
Column Mismatch Report

Compares the columns of every store table with the gorm model that maps it.
Run with `teami migrate --report`.

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: workspaces ---
All columns are accounted for in the model.

--- Table: projects ---
Found 1 columns not accounted for in model:
  - archived

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// TableReport describes how one table differs from its model.
type TableReport struct {
	Table string
	// Exists is false when the table has not been created yet.
	Exists bool
	// Unmapped columns exist in the database but not in the model.
	Unmapped []string
	// Missing columns exist in the model but not in the database.
	Missing []string
}

// ColumnReport inspects every table the store owns.
func (d Database) ColumnReport(ctx context.Context) ([]TableReport, error) {
	db := d.db.WithContext(ctx).Clauses(dbresolver.Write).Session(&gorm.Session{})
	migrator := db.Migrator()

	var reports []TableReport
	for _, model := range schemaModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, errs.NewInternalErrorWithCause("parse model", err)
		}
		report := TableReport{Table: stmt.Schema.Table}

		if !migrator.HasTable(model) {
			report.Missing = append([]string(nil), stmt.Schema.DBNames...)
			reports = append(reports, report)
			continue
		}
		report.Exists = true

		columnTypes, err := migrator.ColumnTypes(model)
		if err != nil {
			return nil, errs.NewDatabaseError("inspect columns of", report.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		report.Unmapped = findColumnMismatches(dbColumns, stmt.Schema.DBNames)
		report.Missing = findColumnMismatches(stmt.Schema.DBNames, dbColumns)
		reports = append(reports, report)
	}
	return reports, nil
}

// findColumnMismatches returns the entries of have that want does not contain.
func findColumnMismatches(have, want []string) []string {
	wantSet := make(map[string]bool, len(want))
	for _, c := range want {
		wantSet[c] = true
	}

	var mismatches []string
	for _, c := range have {
		if !wantSet[c] {
			mismatches = append(mismatches, c)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}

// WriteColumnReport prints reports in the human readable layout shown above.
func WriteColumnReport(w io.Writer, reports []TableReport) int {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, r := range reports {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", r.Table)
		if !r.Exists {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			continue
		}
		if len(r.Unmapped) == 0 && len(r.Missing) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}
		if len(r.Unmapped) > 0 {
			fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(r.Unmapped))
			for _, col := range r.Unmapped {
				fmt.Fprintf(w, "  - %s\n", col)
			}
		}
		if len(r.Missing) > 0 {
			fmt.Fprintf(w, "Found %d model fields with no column:\n", len(r.Missing))
			for _, col := range r.Missing {
				fmt.Fprintf(w, "  - %s\n", col)
			}
		}
		total += len(r.Unmapped) + len(r.Missing)
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return total
}
