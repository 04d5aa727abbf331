// Package render turns component descriptors into presentational node trees.
package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zhouzirui/navigator/backend/internal/model/component"
)

// Render maps each descriptor to a view, preserving order. Unknown kinds get
// the "Component Not Found" view; nothing here fails.
func Render(descriptors []component.Descriptor) []View {
	views := make([]View, 0, len(descriptors))
	for _, d := range descriptors {
		views = append(views, renderOne(d))
	}
	return views
}

func renderOne(d component.Descriptor) View {
	props := d.Props
	var root Node
	switch d.Type {
	case component.Assessment:
		root = assessment(props)
	case component.Form:
		root = form(props)
	case component.Dashboard:
		root = dashboard(props)
	case component.Card:
		root = card(props)
	case component.Table:
		root = table(props)
	default:
		return View{Kind: d.Type, Found: false, Root: notFound(d.Type)}
	}
	return View{Kind: d.Type, Found: true, Root: el("div", "component", root)}
}

func notFound(kind component.Kind) Node {
	return el("div", "error-component",
		el("div", "error-message",
			text("h4", "", "Component Not Found"),
			text("p", "", "Component type \""+string(kind)+"\" is not available."),
		),
	)
}

// EmptyState is shown when the canvas has nothing to draw.
func EmptyState() Node {
	return el("div", "empty-state",
		text("h3", "", "No components to render"),
		text("p", "", "Components will appear here when created."),
	)
}

func assessment(p component.Props) Node {
	stages := p.Strings("stages")
	items := make([]Node, 0, len(stages))
	for i, stage := range stages {
		items = append(items, el("div", "stage-item",
			text("span", "stage-number", fmt.Sprintf("%d.", i+1)),
			text("span", "stage-text", stage),
		))
	}
	dims := p.String("dimensions", "14")
	return el("div", "assessment-container",
		text("h3", "assessment-title", p.String("title", "Assessment")),
		el("div", "stages-list", items...),
		el("div", "dimensions-info",
			el("p", "",
				text("span", "", "Evaluate your organization across"),
				text("strong", "", dims+" dimensions"),
			),
		),
	)
}

func form(p component.Props) Node {
	fields := p.Strings("fields")
	groups := make([]Node, 0, len(fields)+1)
	for _, field := range fields {
		input := Node{Tag: "input", Class: "field-input"}.
			with("type", inputType(field)).
			with("placeholder", "Enter "+field)
		groups = append(groups, el("div", "field-group",
			text("label", "field-label", capitalize(field)),
			input,
		))
	}
	groups = append(groups, text("button", "submit-button", p.String("submitText", "Submit")).with("type", "submit"))
	return el("div", "form-container",
		text("h3", "form-title", p.String("title", "Form")),
		el("form", "form", groups...),
	)
}

func inputType(field string) string {
	switch field {
	case "password", "confirmPassword":
		return "password"
	case "email":
		return "email"
	default:
		return "text"
	}
}

func dashboard(p component.Props) Node {
	widgets := p.Strings("widgets")
	blocks := make([]Node, 0, len(widgets))
	for _, w := range widgets {
		block := el("div", "widget",
			el("div", "widget-header", text("h4", "", widgetTitle(w))),
		)
		if body, ok := widgetBody(w); ok {
			block.Children = append(block.Children, el("div", "widget-content", body))
		}
		blocks = append(blocks, block)
	}
	return el("div", "dashboard-container",
		text("h3", "dashboard-title", p.String("title", "Dashboard")),
		el("div", "dashboard-grid", blocks...),
	)
}

// widgetTitle capitalises the key and turns its first dash into a space.
func widgetTitle(key string) string {
	return capitalize(strings.Replace(key, "-", " ", 1))
}

func widgetBody(key string) (Node, bool) {
	switch key {
	case "stats":
		return el("div", "stats-grid",
			stat("1,234", "Total Users"),
			stat("567", "Active Sessions"),
		), true
	case "charts":
		bars := []string{"60%", "80%", "45%", "90%"}
		nodes := make([]Node, len(bars))
		for i, h := range bars {
			nodes[i] = Node{Tag: "div", Class: "chart-bar"}.with("style", "height: "+h)
		}
		return el("div", "chart-placeholder", nodes...), true
	case "recent-activity":
		return el("div", "activity-list",
			activity("User John Doe logged in", "2 min ago"),
			activity("New user registered", "5 min ago"),
			activity("System backup completed", "1 hour ago"),
		), true
	default:
		return Node{}, false
	}
}

func stat(value, label string) Node {
	return el("div", "stat-item",
		text("span", "stat-value", value),
		text("span", "stat-label", label),
	)
}

func activity(what, when string) Node {
	return el("div", "activity-item",
		text("span", "activity-text", what),
		text("span", "activity-time", when),
	)
}

func card(p component.Props) Node {
	title := p.String("title", "Card Title")
	children := make([]Node, 0, 2)
	if img := p.String("image", ""); img != "" {
		children = append(children, el("div", "card-image",
			Node{Tag: "img"}.with("src", img).with("alt", p.String("title", "")),
		))
	}
	children = append(children, el("div", "card-content",
		text("h3", "card-title", title),
		text("p", "card-text", p.String("content", "This is a sample card component with some content.")),
		el("div", "card-actions",
			text("button", "card-button", "Learn More"),
			text("button", "card-button-secondary", "Share"),
		),
	))
	return el("div", "card-container", children...)
}

func table(p component.Props) Node {
	headers := p.Strings("headers")
	headCells := make([]Node, len(headers))
	for i, h := range headers {
		headCells[i] = text("th", "table-header", h)
	}

	rows := p.Rows("data")
	bodyRows := make([]Node, len(rows))
	for i, row := range rows {
		cells := make([]Node, len(row))
		for j, cell := range row {
			cells[j] = text("td", "table-cell", cell)
		}
		bodyRows[i] = el("tr", "table-row", cells...)
	}

	return el("div", "table-container",
		text("h3", "table-title", "Data Table"),
		el("div", "table-wrapper",
			el("table", "table",
				el("thead", "", el("tr", "", headCells...)),
				el("tbody", "", bodyRows...),
			),
		),
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
