package prompt

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SamplePrompt is a clickable shortcut that pre-fills and submits Action.
type SamplePrompt struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Action string `json:"action" yaml:"action"`
}

//go:embed prompts.yaml
var seedYAML []byte

// Parse decodes a YAML list of sample prompts.
func Parse(data []byte) ([]SamplePrompt, error) {
	var items []SamplePrompt
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode sample prompts: %w", err)
	}
	for i, item := range items {
		if item.ID == "" || item.Action == "" {
			return nil, fmt.Errorf("sample prompt %d: id and action are required", i)
		}
		if item.Title == "" {
			items[i].Title = item.Action
		}
	}
	return items, nil
}

// Seed returns the built-in sample prompts.
func Seed() []SamplePrompt {
	items, err := Parse(seedYAML)
	if err != nil {
		panic(err)
	}
	return items
}
