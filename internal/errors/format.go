package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
	colorWhite = "\033[37m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

func paint(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

// Format renders the error as a multi-line report for terminals.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(paint(colorRed+colorBold, "ERROR"))
	if e.Code != "" {
		b.WriteString(paint(colorWhite+colorBold, " "+e.Code))
	}
	b.WriteString(paint(colorWhite, ": "+e.Message))
	b.WriteString("\n\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(colorCyan, e.Location.String()))
		e.writeContext(&b)
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(colorGray, "Caused by: "), e.Wrapped.Error())
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(colorCyan, "Hint: "), e.Suggestion)
	}

	if e.Example != "" {
		fmt.Fprintf(&b, "  %s\n", paint(colorCyan, "Example:"))
		for _, line := range strings.Split(e.Example, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		b.WriteString("\n")
	}

	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s%s\n", paint(colorGray, "Learn more: "), paint(colorBlue, e.DocURL))
	}

	return b.String()
}

// writeContext writes the source lines around Location, marking the
// offending line.
func (e *Error) writeContext(w io.Writer) {
	lines := e.contextLines()
	if len(lines) == 0 {
		return
	}
	first := e.Location.Line - len(lines)/2
	for i, line := range lines {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(w, "    %4d%s%s\n", n, paint(colorGray, " │ "), line)
			continue
		}
		fmt.Fprintf(w, "  %s%4d%s%s\n", paint(colorRed, "→ "), n, paint(colorGray, " │ "), line)
		if e.Location.Column > 0 {
			fmt.Fprintf(w, "       %s%s%s\n", paint(colorGray, "│ "),
				strings.Repeat(" ", e.Location.Column-1), paint(colorRed, "^"))
		}
	}
	fmt.Fprintln(w)
}

// FormatCompact returns a compact single-line error format.
func (e *Error) FormatCompact() string {
	var b strings.Builder
	if e.Location != nil {
		b.WriteString(e.Location.String())
		b.WriteString(": ")
	}
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

type jsonError struct {
	Code       string    `json:"code,omitempty"`
	Category   Category  `json:"category"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Cause      string    `json:"cause,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	DocURL     string    `json:"docUrl,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	if ce := (*Error)(nil); stderrors.As(err, &ce) {
		fmt.Fprint(os.Stderr, ce.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\n%s %s\n\n", paint(colorRed+colorBold, "ERROR:"), err.Error())
}
