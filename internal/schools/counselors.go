package schools

import (
	"fmt"
	"sort"

	"cpsatlas/internal/errors"
	"cpsatlas/internal/tabular"
	"cpsatlas/pkg/contracts/domain"
)

// Column names in the CPS employee position file
const (
	ColJobTitle     = "Job Title"
	ColDeptID       = "Dept ID"
	ColFTE          = "FTE"
	ColAnnualSalary = "FTE Annual Salary"
)

// LoadPayroll reads the employee position file and returns the counselor
// rows. Title matching is exact. Non-counselor rows are never parsed, so
// junk elsewhere in the roster cannot break the load, but a counselor row
// with a malformed department, FTE or salary is a hard failure.
func LoadPayroll(filePath string) ([]domain.PayrollRow, error) {
	table, err := tabular.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if err := table.RequireColumns(ColJobTitle, ColDeptID, ColFTE, ColAnnualSalary); err != nil {
		return nil, err
	}

	titleCol, _ := table.Column(ColJobTitle)
	deptCol, _ := table.Column(ColDeptID)
	fteCol, _ := table.Column(ColFTE)
	salaryCol, _ := table.Column(ColAnnualSalary)

	var rows []domain.PayrollRow
	for i, row := range table.Rows {
		title := table.Cell(row, titleCol)
		if title != domain.JobTitleCounselorFT && title != domain.JobTitleCounselorPT {
			continue
		}

		deptID, ok := tabular.ParseInt(table.Cell(row, deptCol))
		if !ok {
			return nil, parseError(filePath, table.Line(i), ColDeptID, table.Cell(row, deptCol))
		}

		fte, ok := tabular.ParseFloat(table.Cell(row, fteCol))
		if !ok {
			return nil, parseError(filePath, table.Line(i), ColFTE, table.Cell(row, fteCol))
		}

		salary, ok := tabular.ParseFloat(table.Cell(row, salaryCol))
		if !ok {
			return nil, parseError(filePath, table.Line(i), ColAnnualSalary, table.Cell(row, salaryCol))
		}

		rows = append(rows, domain.PayrollRow{
			JobTitle:     title,
			DeptID:       deptID,
			FTE:          fte,
			AnnualSalary: salary,
		})
	}

	return rows, nil
}

func parseError(filePath string, line int, column, value string) error {
	return errors.NewParsingError(
		fmt.Sprintf("line %d: invalid %s %q", line, column, value), nil).
		WithContext("file", filePath)
}

type fteGroup struct {
	deptID   int
	fte      float64
	count    int
	salaries []float64
}

// AggregateCounselors reduces counselor rows to one summary per school.
// Rows group by (department, FTE); each group contributes its headcount
// and its median salary. Headcounts map to the full-time and part-time
// columns only for FTE 1.0 and 0.5, but every group's median competes
// for the representative salary, which takes the maximum.
func AggregateCounselors(rows []domain.PayrollRow) []domain.CounselorSummary {
	type groupKey struct {
		deptID int
		fte    float64
	}

	groups := make(map[groupKey]*fteGroup)
	for _, row := range rows {
		key := groupKey{deptID: row.DeptID, fte: row.FTE}
		g, exists := groups[key]
		if !exists {
			g = &fteGroup{deptID: row.DeptID, fte: row.FTE}
			groups[key] = g
		}
		g.count++
		g.salaries = append(g.salaries, row.AnnualSalary)
	}

	summaries := make(map[int]*domain.CounselorSummary)
	for _, g := range groups {
		m := median(g.salaries)

		s, exists := summaries[g.deptID]
		if !exists {
			// Seed from the first group so the maximum has no zero floor.
			s = &domain.CounselorSummary{DeptID: g.deptID, RepresentativeSalary: m}
			summaries[g.deptID] = s
		} else if m > s.RepresentativeSalary {
			s.RepresentativeSalary = m
		}

		switch g.fte {
		case domain.FTEFullTime:
			s.NumCounselFT += g.count
		case domain.FTEPartTime:
			s.NumCounselPT += g.count
		}
	}

	out := make([]domain.CounselorSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DeptID < out[j].DeptID
	})

	return out
}

// median returns the median of values, averaging the middle pair for an
// even count. The input slice is not modified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
