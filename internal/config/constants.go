package config

import (
	"time"

	"cpsatlas/pkg/contracts"
)

// Application constants for the CPS Atlas pipeline
const (
	// Application Info
	AppName    = "CPS Atlas Pipeline"
	AppVersion = contracts.Version

	// Health Atlas API
	DefaultBaseURL   = "https://api.chicagohealthatlas.org/"
	PlacesPath       = "api/v1/places"
	TopicInfoPathFmt = "api/v1/topic_info/%s/%s"

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultInputsDir  = "data/inputs"
	DefaultOutputDir  = "data/outputs"
	DefaultLogsDir    = "logs"

	// Well-known output file names
	CommunityCSVName  = "community_data.csv"
	CounselorsCSVName = "school_counselors.csv"
	ProfilesCSVName   = "school_profiles.csv"
	SummaryJSONName   = "run_summary.json"

	// Input discovery patterns, tried in order when no explicit path is
	// configured. CPS publishes these files as CSV or Excel workbooks.
	HardshipFilePattern  = "*hardship*"
	PayrollFilePattern   = "*[Pp]osition*"
	ProfilesFilePattern  = "*[Pp]rofile*"
	LocationsFilePattern = "*.geojson"

	// Log Settings
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogOutput   = "console"
	DefaultLogFilePath = "logs/pipeline.log"
)
