// Package docstring normalizes handler documentation into reStructuredText body lines.
package docstring

import (
	"fmt"
	"strings"

	"github.com/javiercbk/autohttp/view"
)

const (
	tabSize     = 8
	paramIndent = 4
)

// AppendParams appends one :<json field line per parameter to doc. The lines
// take the margin of the doc body so that Prepare dedents them with it.
func AppendParams(doc string, params []view.Param) string {
	if len(params) == 0 {
		return doc
	}
	raw := splitLines(doc)
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = expandTabs(l)
	}
	indent := paramIndent
	if m := margin(tail(lines)); m >= 0 {
		indent = m
	}
	var sb strings.Builder
	sb.WriteString(doc)
	sb.WriteString("\n\n")
	for _, p := range params {
		sb.WriteString(strings.Repeat(" ", indent))
		sb.WriteString(strings.TrimLeft(ParamLine(p), " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ParamLine renders a single parameter annotation
func ParamLine(p view.Param) string {
	if p.Required {
		return fmt.Sprintf("    :<json %s %s: %s.", p.Type, p.Name, p.Description)
	}
	return fmt.Sprintf("    :<json %s %s: *(optional)* %s. *Default*=%s", p.Type, p.Name, p.Description, p.Default)
}

// Prepare turns a raw docstring into body lines. The first line is stripped,
// the margin shared by the other non-blank lines is removed, leading and
// trailing blank lines are dropped and a single blank line ends the body.
func Prepare(doc string) []string {
	raw := splitLines(doc)
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimRight(expandTabs(l), " \t")
	}
	m := margin(tail(lines))
	if len(lines) > 0 {
		lines[0] = strings.TrimLeft(lines[0], " ")
	}
	if m > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= m {
				lines[i] = lines[i][m:]
			} else {
				lines[i] = ""
			}
		}
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return []string{}
	}
	return append(lines, "")
}

// margin returns the indentation shared by the non-blank lines, -1 when all are blank
func margin(lines []string) int {
	m := -1
	for _, l := range lines {
		content := strings.TrimLeft(l, " ")
		if strings.TrimSpace(content) == "" {
			continue
		}
		indent := len(l) - len(content)
		if m < 0 || indent < m {
			m = indent
		}
	}
	return m
}

func tail(lines []string) []string {
	if len(lines) < 2 {
		return nil
	}
	return lines[1:]
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func expandTabs(line string) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	var sb strings.Builder
	column := 0
	for _, r := range line {
		if r == '\t' {
			spaces := tabSize - column%tabSize
			sb.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		sb.WriteRune(r)
		column++
	}
	return sb.String()
}
