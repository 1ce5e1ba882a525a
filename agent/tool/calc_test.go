package tool

import (
	"context"
	"encoding/json"
	"testing"
)

func evalViaHandler(t *testing.T, expression string) float64 {
	t.Helper()
	out, err := CalcHandler(context.Background(), map[string]any{"expression": expression})
	if err != nil {
		t.Fatalf("CalcHandler(%q) error = %v", expression, err)
	}
	var parsed calcOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("CalcHandler(%q) output not JSON: %v", expression, err)
	}
	if parsed.Expression != expression {
		t.Fatalf("echoed expression = %q, want %q", parsed.Expression, expression)
	}
	return parsed.Result
}

func TestCalcHandlerEvaluates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		expression string
		want       float64
	}{
		{"2 + 3 * (4 - 1)", 11},
		{"10 / 4", 2.5},
		{"2 ^ 10", 1024},
		{"7 % 3", 1},
		{"-3 + 5", 2},
		{"2 ^ 3 ^ 2", 512},
		{"(1 + 2) * (3 + 4)", 21},
	}
	for _, tc := range cases {
		if got := evalViaHandler(t, tc.expression); got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expression, got, tc.want)
		}
	}
}

func TestCalcHandlerRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"2 + x",
		"(1 + 2",
		"1 + 2)",
		"1 / 0",
		"5 % 0",
		"1..5 + 2",
		"import os",
	}
	for _, expression := range cases {
		if _, err := CalcHandler(context.Background(), map[string]any{"expression": expression}); err == nil {
			t.Errorf("CalcHandler(%q) should fail", expression)
		}
	}
}

func TestCalcHandlerMissingArgument(t *testing.T) {
	t.Parallel()

	if _, err := CalcHandler(context.Background(), map[string]any{}); err == nil {
		t.Fatal("CalcHandler() without expression should fail")
	}
	if _, err := CalcHandler(context.Background(), map[string]any{"expression": 42}); err == nil {
		t.Fatal("CalcHandler() with non-string expression should fail")
	}
}

func TestThinkHandlerEchoesReflection(t *testing.T) {
	t.Parallel()

	out, err := ThinkHandler(context.Background(), map[string]any{"reflection": "coverage is thin on pricing"})
	if err != nil {
		t.Fatalf("ThinkHandler() error = %v", err)
	}
	if out != "Reflection recorded: coverage is thin on pricing" {
		t.Fatalf("ThinkHandler() = %q", out)
	}

	if _, err := ThinkHandler(context.Background(), map[string]any{}); err == nil {
		t.Fatal("ThinkHandler() without reflection should fail")
	}
}
