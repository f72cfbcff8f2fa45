package domain

import "context"

// Severity grades invariant violations.
type Severity string

// Violation severities. Blocking violations abort the enclosing transaction.
const (
	SeverityBlock Severity = "block"
	SeverityWarn  Severity = "warn"
)

// Violation describes one invariant breach found during rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	RoomID   string
	SlotID   string
}

// Result aggregates violations from rule evaluation.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleView provides read-only access to a transaction's post-state for
// invariant evaluation.
type RuleView interface {
	Rooms() []Room
	RoomSlots(roomID string) []Slot
}

// Rule is an invariant check executed within a transaction boundary, against
// the state the transaction is about to commit.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance with no rules registered.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}

// RuleViolationError is returned when a transaction produces blocking
// violations. It signals an internal consistency bug rather than an operator
// mistake; correct engine code never trips it.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by invariant rules"
}
