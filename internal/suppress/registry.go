// Package suppress manages the versioned registry of known-benign finding
// signatures. Rules are loaded once per race-detector run and applied
// read-only; the harness never generates rules itself, since that would
// erode their audit value.
package suppress

import (
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"raceward/internal/core/domain"
	"raceward/internal/platform/errors"
	"raceward/internal/platform/logx"
)

// Match is the exact-match pattern over a finding's stable signature.
// Partial or fuzzy matching is deliberately unsupported: an overly broad
// suppression silently hides new real bugs.
type Match struct {
	// File source file path, must equal the finding's reported path
	File string `yaml:"file"`

	// Line 1-based line number
	Line int `yaml:"line"`

	// Shape normalized anomaly class
	Shape domain.Shape `yaml:"shape"`
}

// Key returns the canonical lookup key of the pattern.
func (m Match) Key() string {
	return domain.Signature{File: m.File, Line: m.Line, Shape: m.Shape}.Key()
}

// Rule is one suppression entry. A rule without justification text is
// invalid and rejected at load time.
type Rule struct {
	// Match exact signature pattern
	Match Match `yaml:"match"`

	// Justification required free-text explanation of why the finding is benign
	Justification string `yaml:"justification"`

	// Owner optional contact responsible for the rule
	Owner string `yaml:"owner,omitempty"`

	// Expires optional date (YYYY-MM-DD) after which the rule is invalid
	Expires string `yaml:"expires,omitempty"`
}

// registryDocument is the on-disk shape of the suppression source file.
type registryDocument struct {
	Rules []Rule `yaml:"rules"`
}

// Registry holds the loaded rule set and classifies findings against it.
type Registry struct {
	rules  map[string]Rule
	logger logx.Logger
}

// NewEmpty returns a registry with no rules; every finding classifies as
// unsuppressed.
func NewEmpty(logger logx.Logger) *Registry {
	return &Registry{
		rules:  make(map[string]Rule),
		logger: logger.With("component", "suppression-registry"),
	}
}

// LoadFile loads the registry from its version-controlled source file.
func LoadFile(path string, logger logx.Logger) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.Join(errors.ErrRegistryLoad, err), "reading suppression file %s", path)
	}
	return Load(data, logger)
}

// Load parses and validates the rule document. Any malformed rule fails the
// load entirely rather than being skipped: silently dropping a broken
// suppression can turn a known issue into a surprise, and silently accepting
// a bad rule can hide real bugs.
func Load(data []byte, logger logx.Logger) (*Registry, error) {
	var doc registryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.Join(errors.ErrRegistryLoad, err), "parsing suppression document")
	}

	reg := NewEmpty(logger)
	now := time.Now()

	for i, rule := range doc.Rules {
		if err := validateRule(rule, now); err != nil {
			return nil, errors.Wrapf(errors.Join(errors.ErrRegistryLoad, err), "rule %d (%s)", i, rule.Match.Key())
		}
		key := rule.Match.Key()
		if _, dup := reg.rules[key]; dup {
			return nil, errors.Wrapf(errors.ErrRegistryLoad, "rule %d duplicates pattern %s", i, key)
		}
		reg.rules[key] = rule
	}

	reg.logger.Info("suppression registry loaded", "rules", len(reg.rules))
	return reg, nil
}

func validateRule(rule Rule, now time.Time) error {
	if rule.Match.File == "" {
		return errors.New("match pattern has empty file")
	}
	if rule.Match.Line <= 0 {
		return errors.Errorf("match pattern has invalid line %d", rule.Match.Line)
	}
	if !rule.Match.Shape.IsValid() {
		return errors.Errorf("match pattern has unknown shape %q", rule.Match.Shape)
	}
	if strings.TrimSpace(rule.Justification) == "" {
		return errors.New("missing justification")
	}
	if rule.Expires != "" {
		exp, err := time.Parse("2006-01-02", rule.Expires)
		if err != nil {
			return errors.Wrapf(err, "invalid expiry %q", rule.Expires)
		}
		// An expired rule is a load failure, not a silent no-op: the owner
		// must either delete it or renew it with a fresh justification.
		if exp.Before(now) {
			return errors.Errorf("rule expired on %s", rule.Expires)
		}
	}
	return nil
}

// Classify returns the severity of a finding under the loaded rule set. It
// is a pure function of the finding signature and the rules: same inputs,
// same classification.
func (r *Registry) Classify(f *domain.Finding) domain.Severity {
	if f == nil {
		return domain.SeverityUnsuppressed
	}
	if _, ok := r.rules[f.Signature.Key()]; ok {
		return domain.SeveritySuppressed
	}
	return domain.SeverityUnsuppressed
}

// Len returns the number of loaded rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Keys returns the loaded pattern keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.rules))
	for k := range r.rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
