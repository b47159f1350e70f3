package schools

import (
	"strings"

	"cpsatlas/internal/tabular"
	"cpsatlas/pkg/contracts/domain"
)

// Column names in the CPS school profile file
const (
	ColSchoolID          = "School_ID"
	ColStudentCountTotal = "Student_Count_Total"
)

// demoCountColumns are the absolute demographic counts that get
// normalized into shares of the student total and then dropped.
var demoCountColumns = []string{
	"Student_Count_Low_Income",
	"Student_Count_Special_Ed",
	"Student_Count_English_Learners",
	"Student_Count_Black",
	"Student_Count_Hispanic",
	"Student_Count_White",
	"Student_Count_Asian",
	"Student_Count_Native_American",
	"Student_Count_Other_Ethnicity",
	"Student_Count_Asian_Pacific_Islander",
	"Student_Count_Multi",
	"Student_Count_Hawaiian_Pacific_Islander",
	"Student_Count_Ethnicity_Not_Available",
}

// raceCountColumns are the subset of counts that compete for the
// racial-majority label, in tie-breaking order: the first column with
// the highest share wins.
var raceCountColumns = []string{
	"Student_Count_Black",
	"Student_Count_Hispanic",
	"Student_Count_White",
	"Student_Count_Asian",
	"Student_Count_Native_American",
	"Student_Count_Other_Ethnicity",
	"Student_Count_Asian_Pacific_Islander",
	"Student_Count_Multi",
	"Student_Count_Hawaiian_Pacific_Islander",
	"Student_Count_Ethnicity_Not_Available",
}

// CleanProfiles reads the school profile file and derives the share
// columns and racial-majority label for every school. A School_ID that
// does not parse aborts the run; a dataset keyed on school id cannot
// carry rows without one.
func CleanProfiles(filePath string) ([]domain.SchoolProfileRow, error) {
	table, err := tabular.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	required := append([]string{ColSchoolID, ColStudentCountTotal}, demoCountColumns...)
	if err := table.RequireColumns(required...); err != nil {
		return nil, err
	}

	idCol, _ := table.Column(ColSchoolID)
	totalCol, _ := table.Column(ColStudentCountTotal)

	rows := make([]domain.SchoolProfileRow, 0, len(table.Rows))
	for i, row := range table.Rows {
		schoolID, ok := tabular.ParseInt(table.Cell(row, idCol))
		if !ok {
			return nil, parseError(filePath, table.Line(i), ColSchoolID, table.Cell(row, idCol))
		}

		total := tabular.ParseFloatPtr(table.Cell(row, totalCol))

		shares := make(map[string]*float64, len(demoCountColumns))
		for _, col := range demoCountColumns {
			colIdx, _ := table.Column(col)
			shares[col] = share(tabular.ParseFloatPtr(table.Cell(row, colIdx)), total)
		}

		rows = append(rows, domain.SchoolProfileRow{
			SchoolID:          schoolID,
			StudentCountTotal: total,

			PercLowIncome:               shares["Student_Count_Low_Income"],
			PercSpecialEd:               shares["Student_Count_Special_Ed"],
			PercEnglishLearners:         shares["Student_Count_English_Learners"],
			PercBlack:                   shares["Student_Count_Black"],
			PercHispanic:                shares["Student_Count_Hispanic"],
			PercWhite:                   shares["Student_Count_White"],
			PercAsian:                   shares["Student_Count_Asian"],
			PercNativeAmerican:          shares["Student_Count_Native_American"],
			PercOtherEthnicity:          shares["Student_Count_Other_Ethnicity"],
			PercAsianPacificIslander:    shares["Student_Count_Asian_Pacific_Islander"],
			PercMulti:                   shares["Student_Count_Multi"],
			PercHawaiianPacificIslander: shares["Student_Count_Hawaiian_Pacific_Islander"],
			PercEthnicityNotAvailable:   shares["Student_Count_Ethnicity_Not_Available"],

			RaceMajority: raceMajority(shares),
		})
	}

	return rows, nil
}

// share divides a count by the student total. Either side missing, or a
// zero total, yields a missing share.
func share(count, total *float64) *float64 {
	if count == nil || total == nil || *total == 0 {
		return nil
	}
	v := *count / *total
	return &v
}

// raceMajority picks the label of the largest racial share. Missing
// shares are skipped; only a strictly greater share displaces an
// earlier column, so ties resolve to the first column in order. All
// shares missing yields an empty label.
func raceMajority(shares map[string]*float64) string {
	var best *float64
	label := ""

	for _, col := range raceCountColumns {
		v := shares[col]
		if v == nil {
			continue
		}
		if best == nil || *v > *best {
			best = v
			label = raceLabel(col)
		}
	}

	return label
}

// raceLabel derives the published majority label from a count column
// name: the segment after the last underscore.
func raceLabel(column string) string {
	if idx := strings.LastIndex(column, "_"); idx >= 0 {
		return column[idx+1:]
	}
	return column
}
