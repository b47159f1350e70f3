package schools

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"cpsatlas/internal/errors"
	"cpsatlas/internal/tabular"
	"cpsatlas/pkg/contracts/domain"
)

// LoadLocations reads the school locations GeoJSON file and returns the
// point geometry per school id. Every feature must carry a school_id
// property coercible to an integer; the run aborts otherwise. Features
// without geometry are skipped, and a repeated school id keeps its
// first point so the later join cannot multiply schools.
func LoadLocations(filePath string) (map[int]*geom.Point, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.NewIOError("failed to read locations file", err).
			WithContext("file", filePath)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, errors.NewParsingError("failed to parse GeoJSON", err).
			WithContext("file", filePath)
	}

	locations := make(map[int]*geom.Point, len(fc.Features))
	for i, feature := range fc.Features {
		schoolID, err := schoolIDProperty(feature.Properties)
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("feature %d: %v", i, err), nil).
				WithContext("file", filePath)
		}

		if feature.Geometry == nil {
			continue
		}
		point, ok := feature.Geometry.(*geom.Point)
		if !ok {
			return nil, errors.NewParsingError(
				fmt.Sprintf("feature %d: geometry is %T, expected a point", i, feature.Geometry), nil).
				WithContext("file", filePath)
		}

		if _, exists := locations[schoolID]; !exists {
			locations[schoolID] = point
		}
	}

	return locations, nil
}

// schoolIDProperty coerces the school_id feature property to an int.
// The district publishes it inconsistently as a number or a numeric
// string.
func schoolIDProperty(properties map[string]interface{}) (int, error) {
	raw, ok := properties["school_id"]
	if !ok {
		return 0, fmt.Errorf("missing school_id property")
	}

	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("school_id %v is not an integer", v)
		}
		return int(v), nil
	case string:
		id, ok := tabular.ParseInt(v)
		if !ok {
			return 0, fmt.Errorf("school_id %q is not an integer", v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("school_id has unexpected type %T", raw)
	}
}

// AttachLocations left-joins school locations onto the profile rows by
// school id. Unmatched schools keep a nil location.
func AttachLocations(profiles []domain.SchoolProfileRow, locations map[int]*geom.Point) []domain.SchoolProfileRow {
	for i := range profiles {
		profiles[i].Location = locations[profiles[i].SchoolID]
	}
	return profiles
}
