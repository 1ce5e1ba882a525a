package prompt

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
)

func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	body := "Hello {name}, welcome"
	first := Fingerprint(body)
	second := Fingerprint(body)
	if first != second {
		t.Fatalf("Fingerprint() not deterministic: %q vs %q", first, second)
	}
	if len(first) != fingerprintLen {
		t.Fatalf("Fingerprint() length = %d, want %d", len(first), fingerprintLen)
	}
	if other := Fingerprint(body + "!"); other == first {
		t.Fatalf("different bodies produced equal fingerprints: %q", first)
	}
}

func TestRenderSubstitutesVariables(t *testing.T) {
	t.Parallel()

	tpl := &Template{Name: "greeting", Version: "v2", Body: "Hello {name}, welcome"}
	got, err := tpl.Render(map[string]string{"name": "Ada"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "Hello Ada, welcome" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRenderMissingVariable(t *testing.T) {
	t.Parallel()

	tpl := &Template{Name: "greeting", Version: "v1", Body: "Hi {name}, today is {date}"}
	_, err := tpl.Render(map[string]string{"name": "Ada"})
	if !errors.Is(err, contractx.ErrMissingVariable) {
		t.Fatalf("Render() error = %v, want ErrMissingVariable", err)
	}
	if !strings.Contains(err.Error(), "date") {
		t.Fatalf("error should name the missing variable: %v", err)
	}
}

func TestRenderBraceEscapes(t *testing.T) {
	t.Parallel()

	tpl := &Template{Name: "json", Version: "v1", Body: `Respond with {{"topic": "{topic}"}}`}
	got, err := tpl.Render(map[string]string{"topic": "go"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != `Respond with {"topic": "go"}` {
		t.Fatalf("Render() = %q", got)
	}
}

func TestOTelAttributes(t *testing.T) {
	t.Parallel()

	tpl := &Template{
		Name:        "research_decision",
		Version:     "v1.1.0",
		Body:        "body",
		Author:      "research-platform",
		Date:        "2026-06-18",
		Tags:        []string{"research", "decision"},
		ModelHints:  map[string]any{"temperature": 0.3},
		ContentHash: Fingerprint("body"),
		FilePath:    "/assets/research_decision/v1.1.0.md",
	}

	attrs := tpl.OTelAttributes()
	if attrs["prompt.name"] != "research_decision" {
		t.Fatalf("prompt.name = %v", attrs["prompt.name"])
	}
	if attrs["prompt.version"] != "v1.1.0" {
		t.Fatalf("prompt.version = %v", attrs["prompt.version"])
	}
	if attrs["prompt.tags"] != "research,decision" {
		t.Fatalf("prompt.tags = %v", attrs["prompt.tags"])
	}
	if attrs["prompt.file"] != "v1.1.0.md" {
		t.Fatalf("prompt.file = %v", attrs["prompt.file"])
	}
	if _, ok := attrs["model.hint.temperature"]; !ok {
		t.Fatal("expected model.hint.temperature attribute")
	}

	meta := tpl.TraceMetadata()
	if meta["trace.tags"] != "research_decision,v1.1.0,research,decision" {
		t.Fatalf("trace.tags = %v", meta["trace.tags"])
	}
}
