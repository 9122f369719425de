// Package rules holds the ordered keyword tables that drive transaction
// classification and deduction aggregation. Tables are plain data: they can be
// loaded from YAML and are never mutated once built.
package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/model"
	"gopkg.in/yaml.v3"
)

// CategoryRule maps any of its keywords to a category.
type CategoryRule struct {
	Category model.Category `yaml:"category"`
	Keywords []string       `yaml:"keywords"`
}

// SectionRule maps any of its keywords to a deduction section.
type SectionRule struct {
	Section  model.Section `yaml:"section"`
	Keywords []string      `yaml:"keywords"`
}

// SectionRules is an ordered, first-match-wins list of section rules.
type SectionRules []SectionRule

// RuleSet is the complete rule configuration. Order within every list is significant.
type RuleSet struct {
	Credit      []CategoryRule `yaml:"credit"`
	Debit       []CategoryRule `yaml:"debit"`
	Deductible  []string       `yaml:"deductible_keywords"`
	Sections    SectionRules   `yaml:"sections"`
	Aggregation SectionRules   `yaml:"aggregation"`
}

// Load reads a rule file. Tables missing from the file keep their defaults.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied rules file
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML rules over the defaults and validates the result.
func Parse(data []byte) (*RuleSet, error) {
	rs := Default()
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("%w: rules: %v", common.ErrInvalidConfig, err)
	}
	rs.normalize()
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// Marshal renders the rule set as YAML.
func (rs *RuleSet) Marshal() ([]byte, error) {
	return yaml.Marshal(rs)
}

// Validate checks that every rule names a known category or section and has keywords.
func (rs *RuleSet) Validate() error {
	for i, r := range rs.Credit {
		if !r.Category.IsIncome() {
			return fmt.Errorf("%w: credit rule %d: %q is not an income category", common.ErrInvalidConfig, i, r.Category)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("%w: credit rule %d has no keywords", common.ErrInvalidConfig, i)
		}
	}
	for i, r := range rs.Debit {
		if !r.Category.IsExpense() {
			return fmt.Errorf("%w: debit rule %d: %q is not an expense category", common.ErrInvalidConfig, i, r.Category)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("%w: debit rule %d has no keywords", common.ErrInvalidConfig, i)
		}
	}
	for name, table := range map[string]SectionRules{"sections": rs.Sections, "aggregation": rs.Aggregation} {
		for i, r := range table {
			if s, ok := model.ParseSection(string(r.Section)); !ok || s == model.SectionNone {
				return fmt.Errorf("%w: %s rule %d: unknown section %q", common.ErrInvalidConfig, name, i, r.Section)
			}
			if len(r.Keywords) == 0 {
				return fmt.Errorf("%w: %s rule %d has no keywords", common.ErrInvalidConfig, name, i)
			}
		}
	}
	return nil
}

func (rs *RuleSet) normalize() {
	for i := range rs.Credit {
		rs.Credit[i].Keywords = lowerAll(rs.Credit[i].Keywords)
	}
	for i := range rs.Debit {
		rs.Debit[i].Keywords = lowerAll(rs.Debit[i].Keywords)
	}
	rs.Deductible = lowerAll(rs.Deductible)
	for _, table := range []SectionRules{rs.Sections, rs.Aggregation} {
		for i := range table {
			table[i].Keywords = lowerAll(table[i].Keywords)
			if s, ok := model.ParseSection(string(table[i].Section)); ok {
				table[i].Section = s
			}
		}
	}
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// MatchCategory returns the category of the first rule with a keyword contained in desc.
// desc must already be lower-cased.
func MatchCategory(table []CategoryRule, desc string) (model.Category, bool) {
	for _, r := range table {
		if containsAny(desc, r.Keywords) {
			return r.Category, true
		}
	}
	return "", false
}

// Match returns the section of the first rule with a keyword contained in desc.
// desc must already be lower-cased.
func (sr SectionRules) Match(desc string) (model.Section, bool) {
	for _, r := range sr {
		if containsAny(desc, r.Keywords) {
			return r.Section, true
		}
	}
	return model.SectionNone, false
}

// ContainsAny reports whether desc contains any keyword.
func ContainsAny(desc string, keywords []string) bool {
	return containsAny(desc, keywords)
}

func containsAny(desc string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(desc, k) {
			return true
		}
	}
	return false
}
