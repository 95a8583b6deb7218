// Package builder runs one assembly: it gates on the sentinel section,
// reads the manifest entries in order, writes the combined guide
// atomically, and verifies the result. The pure rendering lives in
// internal/assembler; this package owns all filesystem access and the
// progress stream.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"docbind/internal/assembler"
	"docbind/internal/manifest"
	"docbind/internal/report"
)

var (
	// ErrPrecondition means the sentinel section is absent: the tool is
	// almost certainly running from the wrong directory. Nothing is
	// written in that case.
	ErrPrecondition = errors.New("sentinel section not found")

	// ErrEmptyOutput means the output file was written but stats back as
	// empty. Should be unreachable; kept distinct from plain I/O errors
	// so silent truncation is diagnosable.
	ErrEmptyOutput = errors.New("output file is empty after write")

	// ErrMissingSection is returned in strict mode when any manifest
	// entry is absent.
	ErrMissingSection = errors.New("section not found")
)

// ReportFileName is written next to the output after a successful build.
const ReportFileName = "build_report.json"

type Options struct {
	Title      string
	WorkingDir string
	// OutputPath is resolved against WorkingDir unless absolute.
	OutputPath string
	Manifest   manifest.Manifest
	// Strict turns any missing section into a fatal error instead of a
	// skipped warning.
	Strict bool
	// CommitSHA, when known, is stamped into the build report.
	CommitSHA string
	// Progress receives the per-section stream and the final summary.
	// Defaults to io.Discard.
	Progress io.Writer
	// Now allows tests to pin the embedded timestamps.
	Now func() time.Time
}

type Builder struct {
	opts Options
}

func New(opts Options) *Builder {
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{opts: opts}
}

func (b *Builder) outputPath() string {
	if filepath.IsAbs(b.opts.OutputPath) {
		return b.opts.OutputPath
	}
	return filepath.Join(b.opts.WorkingDir, b.opts.OutputPath)
}

// Build runs the whole pipeline once. The returned report is non-nil even
// on failure so callers can archive what happened; err is non-nil for any
// fatal condition.
func (b *Builder) Build(ctx context.Context) (*report.BuildReport, error) {
	opts := b.opts
	startedAt := opts.Now()
	outPath := b.outputPath()

	rep := report.New(opts.WorkingDir, outPath, startedAt)
	rep.CommitSHA = opts.CommitSHA

	// Precondition gate: the first manifest entry must exist before any
	// side effect happens.
	sentinel := opts.Manifest.Sentinel()
	if sentinel == "" {
		err := fmt.Errorf("%w: manifest is empty", ErrPrecondition)
		rep.Finish(opts.Now(), err)
		return rep, err
	}
	if _, err := os.Stat(filepath.Join(opts.WorkingDir, sentinel)); err != nil {
		rep.AddSignal("sentinel_missing", "critical", "First manifest section is absent; refusing to build.")
		err = fmt.Errorf("%w: %s (run docbind from the guide directory)", ErrPrecondition, sentinel)
		rep.Finish(opts.Now(), err)
		return rep, err
	}

	sections, err := b.readSections(ctx, rep)
	if err != nil {
		rep.Finish(opts.Now(), err)
		return rep, err
	}

	doc := assembler.Assemble(opts.Title, startedAt, opts.Now(), sections)
	if err := writeAtomic(outPath, []byte(doc)); err != nil {
		err = fmt.Errorf("failed to write %s: %w", outPath, err)
		rep.Finish(opts.Now(), err)
		return rep, err
	}

	// Re-stat the file so the report describes what actually landed on
	// disk, not just the in-memory buffer.
	info, err := os.Stat(outPath)
	if err != nil {
		err = fmt.Errorf("failed to stat %s: %w", outPath, err)
		rep.Finish(opts.Now(), err)
		return rep, err
	}
	if info.Size() == 0 {
		rep.AddSignal("empty_output", "critical", "Output file stats as zero bytes after a successful write.")
		err := fmt.Errorf("%w: %s", ErrEmptyOutput, outPath)
		rep.Finish(opts.Now(), err)
		return rep, err
	}

	stats := assembler.Measure(doc)
	rep.Lines = stats.Lines
	rep.Bytes = info.Size()
	rep.Finish(opts.Now(), nil)

	fmt.Fprintf(opts.Progress, "📊 %d lines, %.2f KB, %d/%d sections\n",
		rep.Lines, float64(rep.Bytes)/1024.0, rep.Included, rep.Total)

	reportPath := filepath.Join(filepath.Dir(outPath), ReportFileName)
	if err := rep.Save(reportPath); err != nil {
		fmt.Fprintf(opts.Progress, "⚠️  Failed to write build report: %v\n", err)
	}

	return rep, nil
}

// readSections reads every present manifest entry in order. Missing
// entries are warnings unless strict mode is on; read failures are fatal.
func (b *Builder) readSections(ctx context.Context, rep *report.BuildReport) ([]assembler.Section, error) {
	opts := b.opts
	sections := make([]assembler.Section, 0, opts.Manifest.Len())
	for _, name := range opts.Manifest.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(opts.WorkingDir, name)
		if _, err := os.Stat(path); err != nil {
			if opts.Strict {
				rep.AddSection(name, false, 0)
				return nil, fmt.Errorf("%w: %s", ErrMissingSection, name)
			}
			fmt.Fprintf(opts.Progress, "⚠️  %s not found, skipping\n", name)
			rep.AddSection(name, false, 0)
			rep.AddSignal("section_missing", "warning", fmt.Sprintf("Section %s is absent and was skipped.", name))
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			rep.AddSection(name, false, 0)
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		sections = append(sections, assembler.Section{Name: name, Content: string(content)})
		rep.AddSection(name, true, int64(len(content)))
		fmt.Fprintf(opts.Progress, "✅ %s (%d bytes)\n", name, len(content))
	}
	return sections, nil
}

// writeAtomic writes via a temp file in the same directory and renames it
// over the target, so readers never observe a partial document.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
