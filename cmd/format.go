package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shanonplace/contentful-find-case-sensitive/pkg/contentful"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/search"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	matchStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	fieldStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// printMatches renders the result table for a completed search
func printMatches(term, locale string, matches []search.MatchRecord) {
	title := fmt.Sprintf("🔍 Matches for %q (%s)", term, locale)
	fmt.Println(titleStyle.Render(title))

	if len(matches) == 0 {
		fmt.Println(noDataStyle.Render(fmt.Sprintf("No case-sensitive matches for %q.", term)))
		return
	}

	for _, m := range matches {
		fmt.Println(formatMatch(m))
	}

	fmt.Println(summaryStyle.Render(fmt.Sprintf("%d matching entries", len(matches))))
}

// formatMatch formats a single match record for display
func formatMatch(m search.MatchRecord) string {
	var content strings.Builder

	header := fmt.Sprintf("%s › %s", cases.Title(language.English).String(m.ContentTypeID), m.FieldName)
	content.WriteString(fieldStyle.Render(header))
	content.WriteString("\n\n")
	content.WriteString(m.Snippet)
	content.WriteString("\n")
	content.WriteString(linkStyle.Render(m.EntryLink))
	content.WriteString("\n")
	content.WriteString(metaStyle.Render(fmt.Sprintf("ID: %s | Locale: %s", m.EntryID, m.Locale)))

	return matchStyle.Render(content.String())
}

// formatLocale formats a single locale line for the locales command
func formatLocale(l contentful.Locale) string {
	line := fmt.Sprintf("%-8s %s", l.Code, l.Name)
	if l.Default {
		line += " (default)"
	}
	if l.FallbackCode != "" {
		line += fmt.Sprintf(" [falls back to %s]", l.FallbackCode)
	}
	return line
}
