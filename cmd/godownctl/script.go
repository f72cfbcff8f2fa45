package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"godowncore/pkg/domain"
)

// Script declares one scripted warehouse session: the consignment's pending
// items followed by the operations to perform against the fresh rooms.
type Script struct {
	Consignment string       `yaml:"consignment"`
	Items       []ScriptItem `yaml:"items"`
	Steps       []ScriptStep `yaml:"steps"`
}

// ScriptItem mirrors one pending cargo item.
type ScriptItem struct {
	ID       string  `yaml:"id"`
	Qty      int     `yaml:"qty"`
	Contents string  `yaml:"contents"`
	Packing  string  `yaml:"packing"`
	Prefix   string  `yaml:"prefix"`
	Weight   float64 `yaml:"weight"`
}

// ScriptStep is one operation of the session. Op selects which of the other
// fields apply.
type ScriptStep struct {
	// Op is one of: advise, plan, allocate, remove, clear, undo, search, status.
	Op    string   `yaml:"op"`
	Room  string   `yaml:"room"`
	Start string   `yaml:"start"`
	Mode  string   `yaml:"mode"`
	Qty   int      `yaml:"qty"`
	Items []string `yaml:"items"`
	Slots []string `yaml:"slots"`
	Query string   `yaml:"query"`
}

// knownOps guards against typos before any step runs.
var knownOps = map[string]bool{
	"advise":   true,
	"plan":     true,
	"allocate": true,
	"remove":   true,
	"clear":    true,
	"undo":     true,
	"search":   true,
	"status":   true,
}

// ParseScript reads and validates a session script.
func ParseScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return parseScriptData(data)
}

func parseScriptData(data []byte) (Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	for i, item := range script.Items {
		if item.Qty <= 0 {
			return Script{}, fmt.Errorf("script item %d (%q): qty must be positive", i+1, item.ID)
		}
	}
	for i, step := range script.Steps {
		if !knownOps[step.Op] {
			return Script{}, fmt.Errorf("script step %d: unknown op %q", i+1, step.Op)
		}
	}
	return script, nil
}

// PendingItems converts the script items to domain entities.
func (s Script) PendingItems() []domain.PendingItem {
	items := make([]domain.PendingItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, domain.PendingItem{
			ID:       item.ID,
			Quantity: item.Qty,
			Contents: item.Contents,
			Packing:  item.Packing,
			Prefix:   item.Prefix,
			Weight:   item.Weight,
		})
	}
	return items
}
