package main

import (
	"fmt"
	"strings"

	"childguard/backend/internal/laws"
	"childguard/backend/internal/reportflow"

	"github.com/charmbracelet/lipgloss"
)

var (
	primary     = lipgloss.Color("#1E3A8A")
	accent      = lipgloss.Color("#F59E0B")
	muted       = lipgloss.Color("#6B7280")
	success     = lipgloss.Color("#16A34A")
	destructive = lipgloss.Color("#DC2626")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(22)
	valueStyle   = lipgloss.NewStyle()
	lawStyle     = lipgloss.NewStyle().Foreground(primary).Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1)
	okStyle      = lipgloss.NewStyle().Foreground(success).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(destructive).Bold(true)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// renderSummary lays out the confirmation screen: the report, the statutes
// for its category and the acknowledgements.
func renderSummary(s reportflow.Summary) string {
	d := s.Draft
	var b strings.Builder

	b.WriteString(titleStyle.Render("Review your report"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Perpetrator") + "\n")
	b.WriteString(row("Name", d.AbuserName) + "\n")
	b.WriteString(row("Gender", d.AbuserGender) + "\n")
	b.WriteString(row("Age range", d.AbuserAge) + "\n")
	b.WriteString(row("Relationship", d.Relationship) + "\n\n")

	b.WriteString(sectionStyle.Render("Incident") + "\n")
	b.WriteString(row("Nature of abuse", d.NatureOfAbuse) + "\n")
	b.WriteString(row("Description", d.IncidentDescription) + "\n")
	b.WriteString(row("Location", d.Location) + "\n")
	b.WriteString(row("Evidence", fmt.Sprintf("%d file(s)", len(d.Evidence))) + "\n\n")

	b.WriteString(sectionStyle.Render("Victim") + "\n")
	b.WriteString(row("Name", d.VictimName) + "\n")
	b.WriteString(row("Gender", d.VictimGender) + "\n")
	b.WriteString(row("Age range", d.VictimAge) + "\n")
	b.WriteString(row("Description", d.VictimDescription) + "\n\n")

	b.WriteString(sectionStyle.Render("Reporter") + "\n")
	b.WriteString(row("Phone", d.ReporterPhone) + "\n\n")

	b.WriteString(sectionStyle.Render("Applicable laws") + "\n")
	b.WriteString(renderStatutes(s.Statutes))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("By submitting you acknowledge") + "\n")
	for _, ack := range s.Acknowledgements {
		b.WriteString("• " + ack + "\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderStatutes(statutes []laws.Statute) string {
	var b strings.Builder
	for _, st := range statutes {
		if st.ID == "" {
			b.WriteString(valueStyle.Render(st.Description) + "\n")
			continue
		}
		b.WriteString(lawStyle.Render(st.ID) + "  " + st.Description + "\n")
	}
	return b.String()
}

func renderResources(resources []laws.Resource) string {
	var b strings.Builder
	for _, r := range resources {
		b.WriteString(lawStyle.Render(r.Title) + "\n")
		b.WriteString("  " + r.Subtitle + "\n")
		b.WriteString("  " + lipgloss.NewStyle().Foreground(muted).Render(r.Link) + "\n")
	}
	return b.String()
}
