package community

import (
	"cpsatlas/pkg/contracts/domain"
)

// Assemble left-joins the area roster with the hardship scores (by area
// name) and the indicator table (by slug). One output row per roster
// area, in roster order; unmatched sources leave cells missing. When
// the hardship file repeats a name, the first row wins so the join
// never multiplies areas.
func Assemble(areas []domain.CommunityArea, indicators domain.IndicatorTable, hardship []domain.HardshipRow) []domain.CommunityRow {
	scoreByName := make(map[string]*float64, len(hardship))
	for _, h := range hardship {
		if _, exists := scoreByName[h.Name]; exists {
			continue
		}
		scoreByName[h.Name] = h.Score
	}

	rows := make([]domain.CommunityRow, 0, len(areas))
	for _, area := range areas {
		row := domain.CommunityRow{
			Slug:       area.Slug,
			Name:       area.Name,
			Geometry:   area.Geometry,
			Indicators: make(map[string]float64, len(Indicators)),
		}

		for _, indicator := range Indicators {
			if v, ok := indicators.Lookup(area.Slug, indicator); ok {
				row.Indicators[indicator] = v
			}
		}

		if score, ok := scoreByName[area.Name]; ok {
			row.HardshipScore = score
		}

		rows = append(rows, row)
	}

	return rows
}
