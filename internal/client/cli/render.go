package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (a *App) printError(msg string) {
	fmt.Fprintln(a.out, errorStyle.Render(msg))
}

func (a *App) printSuccess(msg string) {
	fmt.Fprintln(a.out, successStyle.Render(msg))
}

// renderReport prints an analysis: the summary first, then every other
// section, then one block per participant profile.
func renderReport(w io.Writer, r models.AnalysisResult) {
	if s := r.Summary(); s != "" {
		fmt.Fprintln(w, headingStyle.Render("Summary"))
		fmt.Fprintln(w, s)
		fmt.Fprintln(w)
	}

	for _, key := range r.Sections() {
		if key == "summary" || key == "psychological_profiles" || key == "participants" {
			continue
		}
		fmt.Fprintln(w, headingStyle.Render(sectionTitle(key)))
		writeValue(w, r.Field(key), "")
		fmt.Fprintln(w)
	}

	if ps := r.Participants(); len(ps) > 0 {
		fmt.Fprintln(w, headingStyle.Render("Participants"))
		for _, p := range ps {
			line := p.Name
			if p.Role != "" {
				line += " (" + p.Role + ")"
			}
			fmt.Fprintln(w, titleStyle.Render(line))
			writeValue(w, p.Profile, "  ")
		}
		fmt.Fprintln(w)
	}
}

func sectionTitle(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// writeValue prints strings as text, lists as bullets and objects as
// "key: value" lines. Anything deeper is printed as compact JSON.
func writeValue(w io.Writer, raw json.RawMessage, indent string) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Fprintln(w, indent+string(raw))
		return
	}

	switch t := v.(type) {
	case string:
		fmt.Fprintln(w, indent+t)
	case []any:
		for _, item := range t {
			fmt.Fprintln(w, indent+"- "+inline(item))
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == "name" || k == "role" {
				continue
			}
			fmt.Fprintf(w, "%s%s: %s\n", indent, sectionTitle(k), inline(t[k]))
		}
	default:
		fmt.Fprintln(w, indent+inline(t))
	}
}

func inline(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, inline(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if ts, ok := t["timestamp"].(string); ok {
			if d, ok := t["description"].(string); ok {
				return ts + " " + d
			}
		}
	}
	b, _ := json.Marshal(v)
	return string(b)
}
