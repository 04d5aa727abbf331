package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/navigator/backend/internal/analysis/intent"
	"github.com/zhouzirui/navigator/backend/internal/model/component"
)

func TestRenderUnknownKindFallsBack(t *testing.T) {
	views := Render([]component.Descriptor{{Type: "frobnicate"}})

	require.Len(t, views, 1)
	assert.False(t, views[0].Found)
	assert.Equal(t, component.Kind("frobnicate"), views[0].Kind)
	content := views[0].Root.TextContent()
	assert.Contains(t, content, "Component Not Found")
	assert.Contains(t, content, "frobnicate")
}

func TestRenderUnknownKindKeepsLiteralName(t *testing.T) {
	for _, kind := range []component.Kind{`frob"nicate`, `a\b`, "tab\there", "diagramme-é"} {
		views := Render([]component.Descriptor{{Type: kind}})

		require.Len(t, views, 1)
		msg := views[0].Root.Find("p")
		require.Len(t, msg, 1)
		assert.Equal(t, "Component type \""+string(kind)+"\" is not available.", msg[0].Text, string(kind))
	}
}

func TestRenderLoginFormEndToEnd(t *testing.T) {
	reply := intent.Respond("I need a login form")
	views := Render(reply.Descriptors)

	require.Len(t, views, 1)
	assert.True(t, views[0].Found)
	inputs := views[0].Root.Find("input")
	require.Len(t, inputs, 2)
	assert.Equal(t, "email", inputs[0].Attr("type"))
	assert.Equal(t, "Enter email", inputs[0].Attr("placeholder"))
	assert.Equal(t, "password", inputs[1].Attr("type"))

	labels := views[0].Root.Find("label")
	require.Len(t, labels, 2)
	assert.Equal(t, "Email", labels[0].Text)
	assert.Equal(t, "Password", labels[1].Text)

	buttons := views[0].Root.Find("button")
	require.Len(t, buttons, 1)
	assert.Equal(t, "Sign In", buttons[0].Text)
}

func TestRenderSignupFormMasksConfirmPassword(t *testing.T) {
	views := Render(intent.Respond("signup").Descriptors)

	inputs := views[0].Root.Find("input")
	require.Len(t, inputs, 4)
	types := make([]string, len(inputs))
	for i, in := range inputs {
		types[i] = in.Attr("type")
	}
	assert.Equal(t, []string{"text", "email", "password", "password"}, types)
	assert.Equal(t, "ConfirmPassword", views[0].Root.Find("label")[3].Text)
}

func TestRenderTableEndToEnd(t *testing.T) {
	views := Render(intent.Respond("show me a table of data").Descriptors)

	require.Len(t, views, 1)
	root := views[0].Root
	assert.Len(t, root.Find("th"), 4)
	rows := root.Find("tbody")[0].Find("tr")
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row.Find("td"), 4)
	}
}

func TestRenderRaggedTableRows(t *testing.T) {
	d := component.New(component.Table, component.Props{
		"headers": []string{"Name", "Email", "Role", "Status"},
		"data":    [][]string{{"John"}, {}, {"Jane", "jane@example.com", "User", "Active", "extra"}},
	})

	views := Render([]component.Descriptor{d})

	rows := views[0].Root.Find("tbody")[0].Find("tr")
	require.Len(t, rows, 3)
	assert.Len(t, rows[0].Find("td"), 1)
	assert.Len(t, rows[1].Find("td"), 0)
	assert.Len(t, rows[2].Find("td"), 5)
}

func TestRenderToleratesMalformedProps(t *testing.T) {
	descriptors := []component.Descriptor{
		{Type: component.Assessment},
		{Type: component.Form, Props: component.Props{"fields": "email", "title": 7}},
		{Type: component.Dashboard, Props: component.Props{"widgets": []any{"stats", 3, nil}}},
		{Type: component.Card, Props: component.Props{"image": false}},
		{Type: component.Table, Props: component.Props{"headers": nil, "data": "rows"}},
	}

	views := Render(descriptors)

	require.Len(t, views, 5)
	for _, v := range views {
		assert.True(t, v.Found, v.Kind)
	}
	assert.Contains(t, views[0].Root.TextContent(), "Assessment")
	assert.Contains(t, views[0].Root.TextContent(), "14 dimensions")
	assert.Empty(t, views[0].Root.FindClass("stage-item"))

	assert.Empty(t, views[1].Root.Find("input"))
	assert.Equal(t, "7", views[1].Root.Find("h3")[0].Text)
	assert.Equal(t, "Submit", views[1].Root.Find("button")[0].Text)

	assert.Len(t, views[2].Root.FindClass("widget"), 3)

	assert.Empty(t, views[3].Root.Find("img"))
	assert.Equal(t, "Card Title", views[3].Root.Find("h3")[0].Text)

	assert.Empty(t, views[4].Root.Find("th"))
	assert.Empty(t, views[4].Root.Find("td"))
}

func TestRenderDashboardWidgets(t *testing.T) {
	d := component.New(component.Dashboard, component.Props{
		"widgets": []string{"stats", "charts", "recent-activity", "weather"},
	})

	widgets := Render([]component.Descriptor{d})[0].Root.FindClass("widget")

	require.Len(t, widgets, 4)
	titles := make([]string, len(widgets))
	for i, w := range widgets {
		titles[i] = w.Find("h4")[0].Text
	}
	assert.Equal(t, []string{"Stats", "Charts", "Recent activity", "Weather"}, titles)
	assert.Len(t, widgets[0].FindClass("stat-item"), 2)
	assert.Len(t, widgets[1].FindClass("chart-bar"), 4)
	assert.Len(t, widgets[2].FindClass("activity-item"), 3)
	assert.Empty(t, widgets[3].FindClass("widget-content"))
}

func TestRenderCard(t *testing.T) {
	views := Render(intent.Respond("profile card").Descriptors)

	root := views[0].Root
	imgs := root.Find("img")
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://via.placeholder.com/300x200", imgs[0].Attr("src"))
	assert.Equal(t, "User Profile", imgs[0].Attr("alt"))
	buttons := root.Find("button")
	require.Len(t, buttons, 2)
	assert.Equal(t, "Learn More", buttons[0].Text)
	assert.Equal(t, "Share", buttons[1].Text)
}

func TestRenderPreservesOrderAndIsIdempotent(t *testing.T) {
	descriptors := []component.Descriptor{
		intent.Respond("table").Descriptors[0],
		{Type: "mystery"},
		intent.Respond("assessment").Descriptors[0],
	}

	first := Render(descriptors)
	second := Render(descriptors)

	require.Len(t, first, 3)
	assert.Equal(t, component.Table, first[0].Kind)
	assert.Equal(t, component.Kind("mystery"), first[1].Kind)
	assert.Equal(t, component.Assessment, first[2].Kind)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("render is not idempotent (-first +second):\n%s", diff)
	}
}

func TestRenderDecodedJSONDescriptors(t *testing.T) {
	raw := `[{"type":"form","props":{"fields":["email","password"],"title":"Login Form","submitText":"Sign In"}},
	         {"type":"assessment","props":{"stages":["a","b"],"dimensions":9}}]`
	var descriptors []component.Descriptor
	require.NoError(t, json.Unmarshal([]byte(raw), &descriptors))

	views := Render(descriptors)

	assert.Len(t, views[0].Root.Find("input"), 2)
	assert.Contains(t, views[1].Root.TextContent(), "9 dimensions")
	assert.Len(t, views[1].Root.FindClass("stage-item"), 2)
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render(nil))
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	views := Render([]component.Descriptor{
		intent.Respond("login").Descriptors[0],
		{Type: "<script>"},
	})

	require.NoError(t, WriteHTML(&buf, views))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<div class="components-list">`), out)
	assert.Contains(t, out, `data-kind="form"`)
	assert.Contains(t, out, `type="password"`)
	assert.Contains(t, out, "Component Not Found")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestWriteHTMLEmptyState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, nil))
	assert.Contains(t, buf.String(), "No components to render")
}
