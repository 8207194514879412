package format

import (
	"fmt"
	"strings"
)

// DiffMode represents the type of diff output.
type DiffMode int

const (
	DiffModeUnified DiffMode = iota // unified diff (default)
	DiffModeContext                 // context diff
)

func (m DiffMode) String() string {
	switch m {
	case DiffModeUnified:
		return "unified"
	case DiffModeContext:
		return "context"
	}
	return fmt.Sprintf("DiffMode(%d)", int(m))
}

// ParseDiffMode converts "unified" or "context" into a DiffMode.
func ParseDiffMode(s string) (DiffMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unified", "u":
		return DiffModeUnified, nil
	case "context", "c":
		return DiffModeContext, nil
	}
	return DiffModeUnified, fmt.Errorf("unknown diff mode %q (want unified or context)", s)
}

// DiffOptions controls diff generation.
type DiffOptions struct {
	Mode    DiffMode
	Context int // unchanged lines shown around each change
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Mode: DiffModeUnified, Context: 3}
}

// LineType represents the type of a diff line.
type LineType int

const (
	LineTypeContext LineType = iota // unchanged
	LineTypeAdded                   // present only in the formatted text
	LineTypeRemoved                 // present only in the original text
)

// Line is one line of a hunk.
type Line struct {
	Type    LineType
	Content string
}

// Hunk is a contiguous block of changes with its surrounding context.
// Starts are 1-based line numbers.
type Hunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []Line
}

// Header returns the unified "@@ -a,b +c,d @@" line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// DiffStat counts changed lines.
type DiffStat struct {
	LinesAdded   int
	LinesRemoved int
}

// DiffResult is the difference between a source and its formatted form.
type DiffResult struct {
	Hunks      []Hunk
	Stats      DiffStat
	HasChanges bool
}

// DiffFormatter compares sources with their formatted output.
type DiffFormatter struct {
	options DiffOptions
}

// NewDiffFormatter creates a new diff formatter.
func NewDiffFormatter(options DiffOptions) *DiffFormatter {
	if options.Context < 0 {
		options.Context = 0
	}
	return &DiffFormatter{options: options}
}

// GenerateDiff computes the line diff between original and modified.
// Carriage returns are ignored so a CRLF file only differs in content.
func (df *DiffFormatter) GenerateDiff(original, modified string) *DiffResult {
	script := editScript(splitLines(original), splitLines(modified))

	result := &DiffResult{}
	for _, l := range script {
		switch l.Type {
		case LineTypeAdded:
			result.Stats.LinesAdded++
		case LineTypeRemoved:
			result.Stats.LinesRemoved++
		}
	}
	result.HasChanges = result.Stats.LinesAdded+result.Stats.LinesRemoved > 0
	if result.HasChanges {
		result.Hunks = df.hunks(script)
	}
	return result
}

// FormatDiff renders result with file headers, or "" when nothing changed.
func (df *DiffFormatter) FormatDiff(filename string, result *DiffResult) string {
	if !result.HasChanges {
		return ""
	}

	var out strings.Builder
	switch df.options.Mode {
	case DiffModeContext:
		fmt.Fprintf(&out, "*** %s\t(original)\n", filename)
		fmt.Fprintf(&out, "--- %s\t(formatted)\n", filename)
		for _, h := range result.Hunks {
			writeContextHunk(&out, h)
		}
	default:
		fmt.Fprintf(&out, "--- %s\t(original)\n", filename)
		fmt.Fprintf(&out, "+++ %s\t(formatted)\n", filename)
		for _, h := range result.Hunks {
			writeUnifiedHunk(&out, h)
		}
	}
	return out.String()
}

// Diff is GenerateDiff followed by FormatDiff.
func (df *DiffFormatter) Diff(filename, original, modified string) string {
	return df.FormatDiff(filename, df.GenerateDiff(original, modified))
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// editScript returns a shortest line edit turning a into b, built from the
// longest common subsequence table. Removals precede additions at each
// change point.
func editScript(a, b []string) []Line {
	n, m := len(a), len(b)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	script := make([]Line, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a[i] == b[j]:
			script = append(script, Line{Type: LineTypeContext, Content: a[i]})
			i++
			j++
		case j >= m || (i < n && lcs[i+1][j] >= lcs[i][j+1]):
			script = append(script, Line{Type: LineTypeRemoved, Content: a[i]})
			i++
		default:
			script = append(script, Line{Type: LineTypeAdded, Content: b[j]})
			j++
		}
	}
	return script
}

// hunks groups the edit script into hunks. Changes separated by at most
// twice the context size share a hunk.
func (df *DiffFormatter) hunks(script []Line) []Hunk {
	ctx := df.options.Context

	var changed []int
	for k, l := range script {
		if l.Type != LineTypeContext {
			changed = append(changed, k)
		}
	}

	// origLine[k] and modLine[k] are the 1-based line numbers reached
	// before script[k] is applied.
	origLine := make([]int, len(script)+1)
	modLine := make([]int, len(script)+1)
	origLine[0], modLine[0] = 1, 1
	for k, l := range script {
		origLine[k+1], modLine[k+1] = origLine[k], modLine[k]
		if l.Type != LineTypeAdded {
			origLine[k+1]++
		}
		if l.Type != LineTypeRemoved {
			modLine[k+1]++
		}
	}

	var out []Hunk
	for c := 0; c < len(changed); {
		first, last := changed[c], changed[c]
		for c+1 < len(changed) && changed[c+1]-last <= 2*ctx+1 {
			c++
			last = changed[c]
		}
		c++

		lo := max(0, first-ctx)
		hi := min(len(script), last+ctx+1)

		h := Hunk{
			OriginalStart: origLine[lo],
			ModifiedStart: modLine[lo],
			Lines:         append([]Line(nil), script[lo:hi]...),
		}
		for _, l := range h.Lines {
			if l.Type != LineTypeAdded {
				h.OriginalCount++
			}
			if l.Type != LineTypeRemoved {
				h.ModifiedCount++
			}
		}
		out = append(out, h)
	}
	return out
}

func writeUnifiedHunk(out *strings.Builder, h Hunk) {
	out.WriteString(h.Header() + "\n")
	for _, l := range h.Lines {
		switch l.Type {
		case LineTypeAdded:
			out.WriteString("+")
		case LineTypeRemoved:
			out.WriteString("-")
		default:
			out.WriteString(" ")
		}
		out.WriteString(l.Content + "\n")
	}
}

func writeContextHunk(out *strings.Builder, h Hunk) {
	out.WriteString("***************\n")
	fmt.Fprintf(out, "*** %d,%d ****\n", h.OriginalStart, h.OriginalStart+h.OriginalCount-1)
	for _, l := range h.Lines {
		switch l.Type {
		case LineTypeRemoved:
			out.WriteString("- " + l.Content + "\n")
		case LineTypeContext:
			out.WriteString("  " + l.Content + "\n")
		}
	}

	fmt.Fprintf(out, "--- %d,%d ----\n", h.ModifiedStart, h.ModifiedStart+h.ModifiedCount-1)
	for _, l := range h.Lines {
		switch l.Type {
		case LineTypeAdded:
			out.WriteString("+ " + l.Content + "\n")
		case LineTypeContext:
			out.WriteString("  " + l.Content + "\n")
		}
	}
}
