package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved filesystem layout for a pipeline run. All
// directories are absolute, anchored at the executable's directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	InputsDir     string
	OutputDir     string
	LogsDir       string

	CommunityCSV  string
	CounselorsCSV string
	ProfilesCSV   string
	SummaryJSON   string
}

// GetPaths resolves the standard layout relative to the running binary.
// Symlinks are resolved so the layout stays stable when the binary is
// invoked through a link.
func GetPaths() (*Paths, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	execDir := filepath.Dir(execPath)
	return NewPaths(execDir), nil
}

// NewPaths builds the layout under the given base directory
func NewPaths(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, DefaultDataDir)
	outputDir := filepath.Join(dataDir, "outputs")

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       dataDir,
		InputsDir:     filepath.Join(dataDir, "inputs"),
		OutputDir:     outputDir,
		LogsDir:       filepath.Join(baseDir, DefaultLogsDir),

		CommunityCSV:  filepath.Join(outputDir, CommunityCSVName),
		CounselorsCSV: filepath.Join(outputDir, CounselorsCSVName),
		ProfilesCSV:   filepath.Join(outputDir, ProfilesCSVName),
		SummaryJSON:   filepath.Join(outputDir, SummaryJSONName),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.InputsDir,
		p.OutputDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// OutputFile returns the absolute path for a named file in the output dir
func (p *Paths) OutputFile(name string) string {
	return filepath.Join(p.OutputDir, name)
}

// InputFile returns the absolute path for a named file in the inputs dir
func (p *Paths) InputFile(name string) string {
	return filepath.Join(p.InputsDir, name)
}
