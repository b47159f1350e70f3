package exporter

import (
	"fmt"

	"github.com/twpayne/go-geom/encoding/geojson"

	"cpsatlas/internal/community"
	"cpsatlas/internal/config"
	"cpsatlas/pkg/contracts/domain"
)

// Hardship score column name in the community output table
const hardshipColumn = "hardship_index"

// TableExporter writes the three pipeline output tables
type TableExporter struct {
	csvWriter  *CSVWriter
	includeBOM bool
}

// NewTableExporter creates an exporter writing into outputDir
func NewTableExporter(outputDir string, includeBOM bool) *TableExporter {
	return &TableExporter{
		csvWriter:  NewCSVWriter(outputDir),
		includeBOM: includeBOM,
	}
}

// ExportCommunity writes the community area table
func (e *TableExporter) ExportCommunity(rows []domain.CommunityRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, e.communityRecord(row))
	}

	if err := e.csvWriter.WriteCSV(config.CommunityCSVName, WriteOptions{
		Headers:   e.communityHeaders(),
		Records:   records,
		BOMPrefix: e.includeBOM,
	}); err != nil {
		return fmt.Errorf("failed to write community table: %w", err)
	}
	return nil
}

// ExportCounselors writes the per-school counselor summary table
func (e *TableExporter) ExportCounselors(summaries []domain.CounselorSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			formatInt(s.DeptID),
			formatInt(s.NumCounselFT),
			formatInt(s.NumCounselPT),
			formatFloat(s.RepresentativeSalary),
		})
	}

	if err := e.csvWriter.WriteCSV(config.CounselorsCSVName, WriteOptions{
		Headers:   []string{"dept_id", "num_counsel_FT", "num_counsel_PT", "representative_salary"},
		Records:   records,
		BOMPrefix: e.includeBOM,
	}); err != nil {
		return fmt.Errorf("failed to write counselor table: %w", err)
	}
	return nil
}

// ExportProfiles writes the cleaned school profile table
func (e *TableExporter) ExportProfiles(profiles []domain.SchoolProfileRow) error {
	records := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		record, err := e.profileRecord(p)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	if err := e.csvWriter.WriteCSV(config.ProfilesCSVName, WriteOptions{
		Headers:   e.profileHeaders(),
		Records:   records,
		BOMPrefix: e.includeBOM,
	}); err != nil {
		return fmt.Errorf("failed to write profile table: %w", err)
	}
	return nil
}

// communityHeaders returns the community table header row: identity,
// geometry, the indicators in fetch order, then the hardship score.
func (e *TableExporter) communityHeaders() []string {
	headers := []string{"slug", "name", "geometry"}
	headers = append(headers, community.Indicators...)
	return append(headers, hardshipColumn)
}

// communityRecord converts one community row to a CSV record
func (e *TableExporter) communityRecord(row domain.CommunityRow) []string {
	record := make([]string, 0, len(community.Indicators)+4)
	record = append(record, row.Slug, row.Name, string(row.Geometry))

	for _, indicator := range community.Indicators {
		if v, ok := row.Indicator(indicator); ok {
			record = append(record, formatFloat(v))
		} else {
			record = append(record, "")
		}
	}

	return append(record, formatFloatPtr(row.HardshipScore))
}

// profileHeaders returns the profile table header row
func (e *TableExporter) profileHeaders() []string {
	return []string{
		"School_ID",
		"Student_Count_Total",
		"perc_Student_Count_Low_Income",
		"perc_Student_Count_Special_Ed",
		"perc_Student_Count_English_Learners",
		"perc_Student_Count_Black",
		"perc_Student_Count_Hispanic",
		"perc_Student_Count_White",
		"perc_Student_Count_Asian",
		"perc_Student_Count_Native_American",
		"perc_Student_Count_Other_Ethnicity",
		"perc_Student_Count_Asian_Pacific_Islander",
		"perc_Student_Count_Multi",
		"perc_Student_Count_Hawaiian_Pacific_Islander",
		"perc_Student_Count_Ethnicity_Not_Available",
		"race_majority",
		"geometry",
	}
}

// profileRecord converts one school profile to a CSV record. The point
// location serializes as GeoJSON text; a school without one gets an
// empty geometry cell.
func (e *TableExporter) profileRecord(p domain.SchoolProfileRow) ([]string, error) {
	geometry := ""
	if p.Location != nil {
		data, err := geojson.Marshal(p.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to encode geometry for school %d: %w", p.SchoolID, err)
		}
		geometry = string(data)
	}

	return []string{
		formatInt(p.SchoolID),
		formatFloatPtr(p.StudentCountTotal),
		formatFloatPtr(p.PercLowIncome),
		formatFloatPtr(p.PercSpecialEd),
		formatFloatPtr(p.PercEnglishLearners),
		formatFloatPtr(p.PercBlack),
		formatFloatPtr(p.PercHispanic),
		formatFloatPtr(p.PercWhite),
		formatFloatPtr(p.PercAsian),
		formatFloatPtr(p.PercNativeAmerican),
		formatFloatPtr(p.PercOtherEthnicity),
		formatFloatPtr(p.PercAsianPacificIslander),
		formatFloatPtr(p.PercMulti),
		formatFloatPtr(p.PercHawaiianPacificIslander),
		formatFloatPtr(p.PercEthnicityNotAvailable),
		p.RaceMajority,
		geometry,
	}, nil
}
