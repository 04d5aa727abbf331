package intent

import (
	"strings"

	"github.com/zhouzirui/navigator/backend/internal/model/chat"
	"github.com/zhouzirui/navigator/backend/internal/model/component"
)

// HelpText is returned when no rule matches.
const HelpText = "I understand you want to create something. Try asking for a 'form', 'dashboard', 'card', or 'table' component, and I'll build it for you!"

const assessmentText = `Planning to optimize your Product Content Automation Strategy in 4 stages:

1. Assessment guide
2. Current systems in place  
3. Strategies required
4. Detailed Analysis Report

Let's first start with a maturity assessment. I'll help you evaluate your organization across all 14 dimensions. Would you like to start with a specific dimension, or shall I guide you through them systematically?`

// AssessmentDimensions is the number of maturity dimensions the assessment covers.
const AssessmentDimensions = 14

// rule maps a keyword group to a canned reply. Rules are evaluated in slice
// order and the first one whose keywords hit wins.
type rule struct {
	name     string
	keywords []string
	reply    func(input string) chat.Reply
}

var rules = []rule{
	{name: "assessment", keywords: []string{"assessment", "quick start"}, reply: assessmentReply},
	{name: "form", keywords: []string{"form", "login", "signup"}, reply: formReply},
	{name: "dashboard", keywords: []string{"dashboard", "admin"}, reply: dashboardReply},
	{name: "card", keywords: []string{"card", "profile"}, reply: cardReply},
	{name: "table", keywords: []string{"table", "data"}, reply: tableReply},
}

// Rules returns the rule names in priority order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Respond maps free text to a reply. It never fails: unmatched input gets the
// help text and no descriptors.
func Respond(input string) chat.Reply {
	normalized := strings.ToLower(input)
	for _, r := range rules {
		if containsAny(normalized, r.keywords) {
			return r.reply(normalized)
		}
	}
	return chat.Reply{Text: HelpText, Descriptors: []component.Descriptor{}}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func single(text string, d component.Descriptor) chat.Reply {
	return chat.Reply{Text: text, Descriptors: []component.Descriptor{d}}
}

func assessmentReply(string) chat.Reply {
	return single(assessmentText, component.New(component.Assessment, component.Props{
		"title":      "Digital Commerce Maturity Assessment",
		"stages":     []string{"Assessment guide", "Current systems in place", "Strategies required", "Detailed Analysis Report"},
		"dimensions": AssessmentDimensions,
	}))
}

func formReply(input string) chat.Reply {
	props := component.Props{
		"fields":     []string{"name", "email", "password", "confirmPassword"},
		"title":      "Sign Up Form",
		"submitText": "Create Account",
	}
	if strings.Contains(input, "login") {
		props = component.Props{
			"fields":     []string{"email", "password"},
			"title":      "Login Form",
			"submitText": "Sign In",
		}
	}
	return single("I'll create a form component for you!", component.New(component.Form, props))
}

func dashboardReply(string) chat.Reply {
	return single("I'll create a dashboard layout for you!", component.New(component.Dashboard, component.Props{
		"title":   "Admin Dashboard",
		"widgets": []string{"stats", "charts", "recent-activity"},
	}))
}

func cardReply(string) chat.Reply {
	return single("I'll create a card component for you!", component.New(component.Card, component.Props{
		"title":   "User Profile",
		"content": "This is a sample card component",
		"image":   "https://via.placeholder.com/300x200",
	}))
}

func tableReply(string) chat.Reply {
	return single("I'll create a data table for you!", component.New(component.Table, component.Props{
		"headers": []string{"Name", "Email", "Role", "Status"},
		"data": [][]string{
			{"John Doe", "john@example.com", "Admin", "Active"},
			{"Jane Smith", "jane@example.com", "User", "Active"},
			{"Bob Johnson", "bob@example.com", "User", "Inactive"},
		},
	}))
}
