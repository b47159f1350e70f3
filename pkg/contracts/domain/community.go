package domain

import (
	"encoding/json"
)

// CommunityArea is one of Chicago's officially defined geographic
// subdivisions as returned by the health atlas places endpoint.
// Unique by slug. Geometry is passed through opaque; the pipeline never
// reprojects or inspects it.
type CommunityArea struct {
	ID       int             `json:"id"`
	Slug     string          `json:"slug" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	GeoType  string          `json:"geo_type"`
	Geometry json.RawMessage `json:"geometry,omitempty"`
}

// IndicatorKey identifies a single indicator cell by community area slug and
// indicator slug.
type IndicatorKey struct {
	Slug      string `json:"slug"`
	Indicator string `json:"indicator"`
}

// IndicatorTable holds fetched indicator values keyed by (area, indicator).
// The table is sparse: an absent key is a missing cell, which is a valid
// outcome distinct from a fetch failure.
type IndicatorTable map[IndicatorKey]float64

// NewIndicatorTable returns an empty indicator table.
func NewIndicatorTable() IndicatorTable {
	return make(IndicatorTable)
}

// Set stores the value for one (area, indicator) cell.
func (t IndicatorTable) Set(slug, indicator string, value float64) {
	t[IndicatorKey{Slug: slug, Indicator: indicator}] = value
}

// Lookup returns the value for one cell and whether the cell is present.
func (t IndicatorTable) Lookup(slug, indicator string) (float64, bool) {
	v, ok := t[IndicatorKey{Slug: slug, Indicator: indicator}]
	return v, ok
}

// HardshipRow is one row of the economic hardship index file, keyed by the
// community area name exactly as spelled in that file.
type HardshipRow struct {
	Name  string   `json:"name"`
	Score *float64 `json:"score,omitempty"`
}

// CommunityRow is the assembled community-level record: area identity and
// geometry joined with the indicator columns and the hardship score.
// Left-join semantics throughout: unmatched sources leave cells missing,
// rows are never dropped or duplicated.
type CommunityRow struct {
	Slug          string             `json:"slug"`
	Name          string             `json:"name"`
	Geometry      json.RawMessage    `json:"geometry,omitempty"`
	Indicators    map[string]float64 `json:"indicators"`
	HardshipScore *float64           `json:"hardship_score,omitempty"`
}

// Indicator returns the named indicator value and whether it is present.
func (r *CommunityRow) Indicator(name string) (float64, bool) {
	v, ok := r.Indicators[name]
	return v, ok
}
