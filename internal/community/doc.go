// Package community builds the community-area dataset: the health atlas
// roster joined with eight demographic and safety indicators and the
// economic hardship index.
//
// Indicator fetching is sequential and fail-fast. Montclare's indicator
// cells are patched from published values after fetching because the
// atlas API omits them. Assembly is a pair of left joins keyed by area
// name (hardship) and slug (indicators); a missing source value leaves
// the cell empty rather than dropping the area.
package community
