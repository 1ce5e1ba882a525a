package prompt

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
)

const fingerprintLen = 12

// placeholderPattern matches {name} substitutions plus the {{ and }} escapes
// that produce literal braces.
var placeholderPattern = regexp.MustCompile(`\{\{|\}\}|\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Template is one immutable version of a named prompt. Instances are built
// at store load time and never mutated afterwards.
type Template struct {
	Name       string
	Version    string
	Body       string
	Author     string
	Date       string
	Changes    string
	Tags       []string
	ModelHints map[string]any
	// ContentHash is a pure function of Body: equal bodies hash equal.
	ContentHash string
	FilePath    string
}

// Fingerprint returns the short content digest for a template body.
func Fingerprint(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Render substitutes {name} placeholders with the supplied values. Every
// placeholder must resolve; unresolved names fail with ErrMissingVariable
// rather than passing through or blanking.
func (t *Template) Render(vars map[string]string) (string, error) {
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(t.Body, func(m string) string {
		switch m {
		case "{{":
			return "{"
		case "}}":
			return "}"
		}
		key := m[1 : len(m)-1]
		val, ok := vars[key]
		if !ok {
			missing = append(missing, key)
			return m
		}
		return val
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s in prompt %s@%s",
			contractx.ErrMissingVariable, strings.Join(missing, ", "), t.Name, t.Version)
	}
	return out, nil
}

// OTelAttributes returns the flat attribute set exported alongside every
// resolved template for tracing and analytics.
func (t *Template) OTelAttributes() map[string]any {
	attrs := map[string]any{
		"prompt.name":    t.Name,
		"prompt.version": t.Version,
		"prompt.author":  t.Author,
		"prompt.date":    t.Date,
		"prompt.hash":    t.ContentHash,
		"prompt.tags":    strings.Join(t.Tags, ","),
		"prompt.file":    filepath.Base(t.FilePath),
	}
	for key, val := range t.ModelHints {
		attrs["model.hint."+key] = val
	}
	return attrs
}

// TraceMetadata returns the tag-oriented metadata set: the same identity
// fields plus a single filterable tag list combining name, version, and tags.
func (t *Template) TraceMetadata() map[string]any {
	tags := append([]string{t.Name, t.Version}, t.Tags...)
	return map[string]any{
		"trace.metadata.prompt_name":    t.Name,
		"trace.metadata.prompt_version": t.Version,
		"trace.metadata.prompt_author":  t.Author,
		"trace.metadata.prompt_date":    t.Date,
		"trace.metadata.prompt_hash":    t.ContentHash,
		"trace.tags":                    strings.Join(tags, ","),
	}
}
