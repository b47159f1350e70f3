package domain

import (
	"github.com/twpayne/go-geom"
)

// PayrollRow is one employee record from the CPS employee position file.
type PayrollRow struct {
	JobTitle     string  `json:"job_title"`
	DeptID       int     `json:"dept_id"`
	FTE          float64 `json:"fte"`
	AnnualSalary float64 `json:"annual_salary"`
}

// Counselor job titles recognized by the aggregation. Matching is exact.
const (
	JobTitleCounselorFT = "School Counselor"
	JobTitleCounselorPT = "Part-Time School Counselor"
)

// FTE fractions that map to the full-time and part-time headcounts.
const (
	FTEFullTime = 1.0
	FTEPartTime = 0.5
)

// CounselorSummary aggregates counselor staffing for one school.
// At most one row exists per department id. RepresentativeSalary is the
// maximum of the per-FTE-group median salaries, so a school with both
// full-time and part-time counselors reports the higher of the two medians.
type CounselorSummary struct {
	DeptID               int     `json:"dept_id"`
	NumCounselFT         int     `json:"num_counsel_ft"`
	NumCounselPT         int     `json:"num_counsel_pt"`
	RepresentativeSalary float64 `json:"representative_salary"`
}

// SchoolProfileRow is one cleaned school record: the demographic shares
// derived from the published absolute counts, the racial-majority label,
// and the school's point location when the geospatial file has one.
// Percentage fields are nil when the underlying count or the student total
// is missing, or when the total is zero. JSON names match the derived
// column names of the published profile table.
type SchoolProfileRow struct {
	SchoolID          int      `json:"school_id"`
	StudentCountTotal *float64 `json:"Student_Count_Total,omitempty"`

	PercLowIncome               *float64 `json:"perc_Student_Count_Low_Income,omitempty"`
	PercSpecialEd               *float64 `json:"perc_Student_Count_Special_Ed,omitempty"`
	PercEnglishLearners         *float64 `json:"perc_Student_Count_English_Learners,omitempty"`
	PercBlack                   *float64 `json:"perc_Student_Count_Black,omitempty"`
	PercHispanic                *float64 `json:"perc_Student_Count_Hispanic,omitempty"`
	PercWhite                   *float64 `json:"perc_Student_Count_White,omitempty"`
	PercAsian                   *float64 `json:"perc_Student_Count_Asian,omitempty"`
	PercNativeAmerican          *float64 `json:"perc_Student_Count_Native_American,omitempty"`
	PercOtherEthnicity          *float64 `json:"perc_Student_Count_Other_Ethnicity,omitempty"`
	PercAsianPacificIslander    *float64 `json:"perc_Student_Count_Asian_Pacific_Islander,omitempty"`
	PercMulti                   *float64 `json:"perc_Student_Count_Multi,omitempty"`
	PercHawaiianPacificIslander *float64 `json:"perc_Student_Count_Hawaiian_Pacific_Islander,omitempty"`
	PercEthnicityNotAvailable   *float64 `json:"perc_Student_Count_Ethnicity_Not_Available,omitempty"`

	RaceMajority string      `json:"race_majority,omitempty"`
	Location     *geom.Point `json:"-"`
}
