package domain

import (
	"context"
	"errors"
	"testing"
)

type staticView struct{}

func (staticView) Rooms() []Room           { return nil }
func (staticView) RoomSlots(string) []Slot { return nil }

type staticRule struct {
	name string
	res  Result
	err  error
}

func (r staticRule) Name() string { return r.name }
func (r staticRule) Evaluate(context.Context, RuleView) (Result, error) {
	return r.res, r.err
}

func TestResultMergeAndHasBlocking(t *testing.T) {
	var combined Result
	combined.Merge(Result{})
	if len(combined.Violations) != 0 {
		t.Fatalf("merge of empty result added violations: %+v", combined)
	}
	combined.Merge(Result{Violations: []Violation{{Rule: "a", Severity: SeverityWarn}}})
	if combined.HasBlocking() {
		t.Fatal("warn-only result reported blocking")
	}
	combined.Merge(Result{Violations: []Violation{{Rule: "b", Severity: SeverityBlock}}})
	if !combined.HasBlocking() {
		t.Fatal("expected blocking result after block violation")
	}
	if len(combined.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(combined.Violations))
	}
}

func TestRulesEngineAggregatesResults(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "first", res: Result{Violations: []Violation{{Rule: "first", Severity: SeverityWarn}}}})
	engine.Register(staticRule{name: "second", res: Result{Violations: []Violation{{Rule: "second", Severity: SeverityBlock}}}})

	res, err := engine.Evaluate(context.Background(), staticView{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 2 || !res.HasBlocking() {
		t.Fatalf("unexpected aggregate: %+v", res)
	}
}

func TestRulesEngineStopsOnRuleError(t *testing.T) {
	boom := errors.New("boom")
	engine := NewRulesEngine()
	engine.Register(staticRule{name: "broken", err: boom})
	engine.Register(staticRule{name: "never", res: Result{Violations: []Violation{{Severity: SeverityBlock}}}})

	if _, err := engine.Evaluate(context.Background(), staticView{}); !errors.Is(err, boom) {
		t.Fatalf("expected rule error, got %v", err)
	}
}
