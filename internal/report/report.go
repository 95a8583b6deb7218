package report

import (
	"encoding/json"
	"os"
	"time"
)

const Version = "1"

// Signal is a notable condition raised during a build, kept for the JSON
// report rather than thrown. Missing optional sections show up here.
type Signal struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// SectionResult records whether one manifest entry made it into the output.
type SectionResult struct {
	Name     string `json:"name"`
	Included bool   `json:"included"`
	Bytes    int64  `json:"bytes,omitempty"`
}

// BuildReport is the machine-readable record of one assembly run. It is
// saved as build_report.json next to the output and archived in the local
// history database.
type BuildReport struct {
	Version    string          `json:"version"`
	Status     string          `json:"status"`
	StartedAt  string          `json:"started_at"`
	FinishedAt string          `json:"finished_at"`
	DurationMS int64           `json:"duration_ms"`
	WorkingDir string          `json:"working_dir"`
	OutputPath string          `json:"output_path"`
	CommitSHA  string          `json:"commit_sha,omitempty"`
	Sections   []SectionResult `json:"sections"`
	Included   int             `json:"included"`
	Total      int             `json:"total"`
	Lines      int             `json:"lines"`
	Bytes      int64           `json:"bytes"`
	Signals    []Signal        `json:"signals,omitempty"`
	Error      string          `json:"error,omitempty"`

	started time.Time
}

func New(workingDir, outputPath string, startedAt time.Time) *BuildReport {
	return &BuildReport{
		Version:    Version,
		Status:     "running",
		StartedAt:  startedAt.UTC().Format(time.RFC3339),
		WorkingDir: workingDir,
		OutputPath: outputPath,
		started:    startedAt,
	}
}

func (r *BuildReport) AddSection(name string, included bool, size int64) {
	r.Sections = append(r.Sections, SectionResult{Name: name, Included: included, Bytes: size})
	r.Total++
	if included {
		r.Included++
	}
}

func (r *BuildReport) AddSignal(code, severity, message string) {
	r.Signals = append(r.Signals, Signal{Code: code, Severity: severity, Message: message})
}

// Finish stamps the end time and final status. A nil err marks success.
func (r *BuildReport) Finish(finishedAt time.Time, err error) {
	r.FinishedAt = finishedAt.UTC().Format(time.RFC3339)
	r.DurationMS = finishedAt.Sub(r.started).Milliseconds()
	if err != nil {
		r.Status = "error"
		r.Error = err.Error()
		return
	}
	r.Status = "ok"
}

// Save writes the report as indented JSON.
func (r *BuildReport) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
