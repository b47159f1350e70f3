// Package files locates the pipeline's local input files.
//
// The district datasets arrive as loosely named downloads (an Excel
// hardship workbook, a payroll roster, a school profiles export, a
// GeoJSON locations file), so the pipeline discovers them by extension
// and glob pattern rather than hard-coding names. Resolve implements
// the lookup order used for every input: an explicitly configured path
// wins, otherwise the newest file matching a known pattern is taken.
package files
