// Package schools builds the two school-level datasets from CPS
// published files.
//
// The counselor summary filters the employee position roster to school
// counselor titles and reduces it to per-school headcounts and a
// representative salary. The profile table normalizes the published
// demographic counts into shares, labels each school's racial majority,
// and attaches the point location from the district's GeoJSON file.
package schools
