package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	contractx "github.com/nattavee/Fathom-Deep-Research-Agent/agent/contract"
)

const (
	manifestFile  = "manifest.yaml"
	VersionLatest = "latest"
)

// Manifest declares the known prompt names and their default versions,
// plus prompt-independent settings.
type Manifest struct {
	Prompts  map[string]PromptConfig `yaml:"prompts"`
	Settings map[string]any          `yaml:"settings"`
}

// PromptConfig is the per-prompt manifest entry.
type PromptConfig struct {
	Latest      string `yaml:"latest"`
	Description string `yaml:"description"`
}

// ChangelogEntry is one version's history record.
type ChangelogEntry struct {
	Date    string `json:"date"`
	Author  string `json:"author"`
	Changes string `json:"changes"`
}

// Diff summarizes how two versions of a prompt differ.
type Diff struct {
	Version1       string   `json:"version1"`
	Version2       string   `json:"version2"`
	ContentChanged bool     `json:"content_changed"`
	Hash1          string   `json:"hash1"`
	Hash2          string   `json:"hash2"`
	TagsAdded      []string `json:"tags_added"`
	TagsRemoved    []string `json:"tags_removed"`
	HintsChanged   bool     `json:"model_hints_changed"`
}

// snapshot is one fully loaded view of the prompt assets. Snapshots are
// immutable once published; Reload builds a fresh one and swaps it in a
// single write, so readers never observe a partially loaded cache.
type snapshot struct {
	manifest  Manifest
	templates map[string]map[string]*Template
}

// Store resolves (name, version) pairs to templates loaded from a root
// directory: one subdirectory per prompt name, one .md file per version.
type Store struct {
	root string

	mu   sync.RWMutex
	snap *snapshot
}

// NewStore loads the manifest and all declared prompt assets under root.
// A missing or malformed manifest fails construction; a malformed individual
// asset is logged and skipped.
func NewStore(root string) (*Store, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: prompts root is required", contractx.ErrValidation)
	}
	s := &Store{root: trimmed}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the whole store from disk and atomically replaces the
// previous snapshot. There is no incremental update.
func (s *Store) Reload() error {
	snap, err := loadSnapshot(s.root)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

func (s *Store) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Resolve returns the template for name at the given version. An empty
// version or "latest" resolves through the manifest's declared latest,
// falling back to the lexicographically greatest loaded version.
func (s *Store) Resolve(name, version string) (*Template, error) {
	snap := s.current()

	versions, ok := snap.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: prompt %q", contractx.ErrPromptNotFound, name)
	}

	if version == "" || version == VersionLatest {
		version = snap.manifest.Prompts[name].Latest
		if version == "" {
			loaded := sortedVersions(versions)
			if len(loaded) == 0 {
				return nil, fmt.Errorf("%w: no versions loaded for prompt %q", contractx.ErrPromptNotFound, name)
			}
			version = loaded[len(loaded)-1]
		}
	}

	tpl, ok := versions[version]
	if !ok {
		return nil, fmt.Errorf("%w: version %q of prompt %q", contractx.ErrPromptNotFound, version, name)
	}
	return tpl, nil
}

// Names lists all loaded prompt names, sorted.
func (s *Store) Names() []string {
	snap := s.current()
	names := make([]string, 0, len(snap.templates))
	for name := range snap.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions lists the loaded version strings for a prompt, sorted.
func (s *Store) Versions(name string) ([]string, error) {
	snap := s.current()
	versions, ok := snap.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: prompt %q", contractx.ErrPromptNotFound, name)
	}
	return sortedVersions(versions), nil
}

// Changelog returns the date/author/changes record for every loaded version
// of a prompt.
func (s *Store) Changelog(name string) (map[string]ChangelogEntry, error) {
	snap := s.current()
	versions, ok := snap.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: prompt %q", contractx.ErrPromptNotFound, name)
	}
	out := make(map[string]ChangelogEntry, len(versions))
	for version, tpl := range versions {
		out[version] = ChangelogEntry{
			Date:    tpl.Date,
			Author:  tpl.Author,
			Changes: tpl.Changes,
		}
	}
	return out, nil
}

// Compare reports whether two versions of a prompt differ in body, tags, or
// model hints.
func (s *Store) Compare(name, v1, v2 string) (Diff, error) {
	t1, err := s.Resolve(name, v1)
	if err != nil {
		return Diff{}, err
	}
	t2, err := s.Resolve(name, v2)
	if err != nil {
		return Diff{}, err
	}
	return Diff{
		Version1:       v1,
		Version2:       v2,
		ContentChanged: t1.Body != t2.Body,
		Hash1:          t1.ContentHash,
		Hash2:          t2.ContentHash,
		TagsAdded:      tagDifference(t2.Tags, t1.Tags),
		TagsRemoved:    tagDifference(t1.Tags, t2.Tags),
		HintsChanged:   !hintsEqual(t1.ModelHints, t2.ModelHints),
	}, nil
}

/* ------------------------------- loading -------------------------------- */

func loadSnapshot(root string) (*snapshot, error) {
	manifest, err := loadManifest(filepath.Join(root, manifestFile))
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		manifest:  manifest,
		templates: make(map[string]map[string]*Template, len(manifest.Prompts)),
	}

	for name := range manifest.Prompts {
		dir := filepath.Join(root, name)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read prompt dir %s: %w", dir, err)
		}

		snap.templates[name] = make(map[string]*Template, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			version := strings.TrimSuffix(entry.Name(), ".md")
			path := filepath.Join(dir, entry.Name())

			tpl, err := loadAsset(name, version, path)
			if err != nil {
				// Partial-success policy: a broken asset must not take down
				// the rest of the load.
				log.Warn().Err(err).Str("prompt", name).Str("file", path).
					Msg("skipping malformed prompt asset")
				continue
			}
			snap.templates[name][version] = tpl
		}
	}

	return snap, nil
}

func loadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if manifest.Prompts == nil {
		manifest.Prompts = map[string]PromptConfig{}
	}
	return manifest, nil
}

type assetHeader struct {
	Author     string         `yaml:"author"`
	Date       string         `yaml:"date"`
	Changes    string         `yaml:"changes"`
	Tags       []string       `yaml:"tags"`
	ModelHints map[string]any `yaml:"model_hints"`
}

func loadAsset(name, version, path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}

	header, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return nil, err
	}

	var meta assetHeader
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return nil, fmt.Errorf("parse asset header: %w", err)
	}

	body = strings.TrimSpace(body)
	return &Template{
		Name:        name,
		Version:     version,
		Body:        body,
		Author:      meta.Author,
		Date:        meta.Date,
		Changes:     meta.Changes,
		Tags:        meta.Tags,
		ModelHints:  meta.ModelHints,
		ContentHash: Fingerprint(body),
		FilePath:    path,
	}, nil
}

// splitFrontmatter separates the leading "---" fenced YAML header from the
// template body.
func splitFrontmatter(raw string) (header, body string, err error) {
	content := strings.TrimLeft(raw, "\ufeff\n\r")
	if !strings.HasPrefix(content, "---") {
		return "", "", errors.New("missing frontmatter header")
	}
	rest := strings.TrimPrefix(content, "---")
	rest = strings.TrimPrefix(rest, "\r\n")
	rest = strings.TrimPrefix(rest, "\n")

	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", errors.New("unterminated frontmatter header")
	}
	header = rest[:idx]
	body = rest[idx+len("\n---"):]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return header, body, nil
}

/* ------------------------------- helpers --------------------------------- */

func sortedVersions(versions map[string]*Template) []string {
	out := make([]string, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// tagDifference returns the tags present in a but not in b, sorted.
func tagDifference(a, b []string) []string {
	have := make(map[string]struct{}, len(b))
	for _, tag := range b {
		have[tag] = struct{}{}
	}
	var out []string
	for _, tag := range a {
		if _, ok := have[tag]; !ok {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

func hintsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for key, av := range a {
		bv, ok := b[key]
		if !ok || fmt.Sprint(av) != fmt.Sprint(bv) {
			return false
		}
	}
	return true
}
