package model

import (
	"encoding/json"
	"testing"
)

func TestVariableSetPreservesOrder(t *testing.T) {
	payload := `{
		"zeta": {"value": 1, "type": "number"},
		"alpha": {"value": "hi", "type": "string"},
		"mid": {"value": true, "type": "boolean"}
	}`
	var vars VariableSet
	if err := json.Unmarshal([]byte(payload), &vars); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"zeta", "alpha", "mid"}
	if len(vars) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(vars), len(want))
	}
	for i, name := range want {
		if vars[i].Name != name {
			t.Fatalf("binding %d = %q, want %q", i, vars[i].Name, name)
		}
	}
	if vars[1].Type != "string" || vars[1].Value != "hi" {
		t.Fatalf("alpha binding = %+v", vars[1])
	}
}

func TestVariableSetNullValues(t *testing.T) {
	var vars VariableSet
	if err := json.Unmarshal([]byte(`{"x": {"value": null, "type": "null"}}`), &vars); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, ok := vars.Get("x")
	if !ok {
		t.Fatalf("binding x missing")
	}
	if b.Value != nil {
		t.Fatalf("value = %v, want nil", b.Value)
	}
}

func TestVariableSetNullObject(t *testing.T) {
	var vars VariableSet
	if err := json.Unmarshal([]byte(`null`), &vars); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if len(vars) != 0 {
		t.Fatalf("null should decode to empty set, got %d", len(vars))
	}
}

func TestVariableSetRejectsNonObject(t *testing.T) {
	var vars VariableSet
	if err := json.Unmarshal([]byte(`[1, 2]`), &vars); err == nil {
		t.Fatalf("array accepted as variable set")
	}
}

func TestVariableSetRoundTripKeepsOrder(t *testing.T) {
	in := VariableSet{
		{Name: "b", Value: json.Number("2"), Type: "number"},
		{Name: "a", Value: "x", Type: "string"},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out VariableSet
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 2 || out[0].Name != "b" || out[1].Name != "a" {
		t.Fatalf("round trip reordered: %+v", out)
	}
}

func TestExecutionStepDecode(t *testing.T) {
	payload := `{
		"lineNumber": 3,
		"code": "if x > 1:",
		"type": "condition",
		"variables": {"x": {"value": 2, "type": "number"}},
		"conditionResult": true
	}`
	var step ExecutionStep
	if err := json.Unmarshal([]byte(payload), &step); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if step.LineNumber != 3 || step.Type != StepCondition {
		t.Fatalf("step = %+v", step)
	}
	if step.ConditionResult == nil || !*step.ConditionResult {
		t.Fatalf("conditionResult = %v", step.ConditionResult)
	}
	if step.Output != nil {
		t.Fatalf("output should be absent")
	}
}
