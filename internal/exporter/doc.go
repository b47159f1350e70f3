// Package exporter writes the pipeline's output tables.
//
// Three CSV files are produced with fixed header orders: the community
// area table, the counselor summary table and the cleaned school
// profile table, plus a JSON run summary. Missing values are empty
// cells, numbers use the shortest round-trip form, and an optional
// UTF-8 BOM keeps Excel happy with the district's accented school
// names.
package exporter
