// Package assembler contains the pure document-assembly core: given section
// contents that have already been read, it produces the combined guide text.
// It performs no I/O and takes its timestamps as arguments, so the builder
// and the tests share exactly the same rendering path.
package assembler

import (
	"strings"
	"time"
)

// Separator is the horizontal rule placed after the header and after each
// section's content.
const Separator = "\n\n---\n\n"

// Section is one manifest entry's content, in manifest order.
type Section struct {
	Name    string
	Content string
}

// Assemble renders the full guide: a level-1 title, the generation
// timestamp, a separator, each section's raw content followed by a
// separator, and a footer line carrying the completion timestamp.
// Section content is treated as opaque text.
func Assemble(title string, generatedAt, completedAt time.Time, sections []Section) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n> Generated: ")
	b.WriteString(generatedAt.UTC().Format(time.RFC3339))
	b.WriteString(Separator)
	for _, s := range sections {
		b.WriteString(s.Content)
		b.WriteString(Separator)
	}
	b.WriteString("*Assembled at ")
	b.WriteString(completedAt.UTC().Format(time.RFC3339))
	b.WriteString("*\n")
	return b.String()
}

// Stats are the size measurements reported after a build.
type Stats struct {
	Lines int
	Bytes int64
}

// Measure counts lines (line breaks + 1) and bytes of the assembled text.
func Measure(doc string) Stats {
	return Stats{
		Lines: strings.Count(doc, "\n") + 1,
		Bytes: int64(len(doc)),
	}
}

// KiB returns the byte size in kibibytes.
func (s Stats) KiB() float64 {
	return float64(s.Bytes) / 1024.0
}
