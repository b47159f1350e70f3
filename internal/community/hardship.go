package community

import (
	"cpsatlas/internal/tabular"
	"cpsatlas/pkg/contracts/domain"
)

// Column names in the published economic hardship index file
const (
	ColCommunityAreaName = "COMMUNITY AREA NAME"
	ColHardshipIndex     = "HARDSHIP INDEX"
)

// LoadHardship reads the economic hardship index file. Both the name
// and score columns must be present; a score that does not parse is a
// missing value, not a failure.
func LoadHardship(filePath string) ([]domain.HardshipRow, error) {
	table, err := tabular.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if err := table.RequireColumns(ColCommunityAreaName, ColHardshipIndex); err != nil {
		return nil, err
	}

	nameCol, _ := table.Column(ColCommunityAreaName)
	scoreCol, _ := table.Column(ColHardshipIndex)

	rows := make([]domain.HardshipRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		name := table.Cell(row, nameCol)
		if name == "" {
			continue
		}

		rows = append(rows, domain.HardshipRow{
			Name:  name,
			Score: tabular.ParseFloatPtr(table.Cell(row, scoreCol)),
		})
	}

	return rows, nil
}
