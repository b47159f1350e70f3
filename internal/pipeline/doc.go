// Package pipeline orchestrates the data-preparation run end to end.
//
// A run is strictly sequential: fetch the community areas, fetch their
// indicators, load the hardship file, assemble the community table, then
// aggregate counselors, clean school profiles, attach locations, and
// export everything as CSV plus a run summary JSON. The first stage
// error aborts the run, and because export runs last the output tables
// are written all-or-nothing.
//
// Each stage runs inside an OpenTelemetry span and logs under a
// stage-scoped logger carrying the run id.
package pipeline
