package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/navigator/backend/internal/render"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	missingStyle = boxStyle.BorderForeground(lipgloss.Color("196"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	buttonStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

// writeTerminal prints the reply as markdown followed by one box per view.
func writeTerminal(out io.Writer, width int, text string, views []render.View) error {
	if text != "" {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fmt.Errorf("init markdown renderer: %w", err)
		}
		rendered, err := md.Render(text)
		if err != nil {
			return fmt.Errorf("render reply: %w", err)
		}
		if _, err := io.WriteString(out, rendered); err != nil {
			return err
		}
	}

	if len(views) == 0 {
		_, err := fmt.Fprintln(out, boxStyle.Render(terminalLines(render.EmptyState())))
		return err
	}
	for _, v := range views {
		style := boxStyle
		if !v.Found {
			style = missingStyle
		}
		if _, err := fmt.Fprintln(out, style.Width(width-2).Render(terminalLines(v.Root))); err != nil {
			return err
		}
	}
	return nil
}

// terminalLines flattens a node tree into display lines.
func terminalLines(n render.Node) string {
	var lines []string
	var visit func(n render.Node)
	visit = func(n render.Node) {
		switch n.Tag {
		case "h3", "h4":
			lines = append(lines, headingStyle.Render(n.TextContent()))
			return
		case "p", "label":
			lines = append(lines, n.TextContent())
			return
		case "input":
			lines = append(lines, mutedStyle.Render("[ "+n.Attr("placeholder")+" ]"))
			return
		case "button":
			lines = append(lines, buttonStyle.Render("( "+n.Text+" )"))
			return
		case "img":
			lines = append(lines, mutedStyle.Render("[image "+n.Attr("src")+"]"))
			return
		case "tr":
			cells := make([]string, 0, len(n.Children))
			for _, c := range n.Children {
				cells = append(cells, c.TextContent())
			}
			lines = append(lines, strings.Join(cells, " | "))
			return
		}
		if n.Class == "stage-item" || n.Class == "activity-item" || n.Class == "stat-item" {
			lines = append(lines, n.TextContent())
			return
		}
		if n.Text != "" {
			lines = append(lines, n.Text)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(lines, "\n")
}
