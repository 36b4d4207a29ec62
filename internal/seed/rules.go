// Package seed generates auto-generated compliance tasks from a business
// profile. Which tasks apply to which profile is data, not code: the rule
// set lives in a YAML file and this package only interprets it.
package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/startsmart/backend/domain"
)

// Rule describes one seedable task template and the profile conditions
// under which it applies.
type Rule struct {
	TaskName       string `yaml:"task_name"`
	Description    string `yaml:"description"`
	Category       string `yaml:"category"`
	Priority       string `yaml:"priority"`
	Recurring      string `yaml:"recurring"`
	MonthsUntilDue int    `yaml:"months_until_due"`
	StateSpecific  bool   `yaml:"state_specific"`
	AppliesTo      struct {
		EntityTypes    []string `yaml:"entity_types"`
		HasEmployees   *bool    `yaml:"has_employees"`
		HasRetailSales *bool    `yaml:"has_retail_sales"`
	} `yaml:"applies_to"`
}

// Matches reports whether the rule applies to the given profile. Empty
// conditions match everything.
func (r Rule) Matches(profile *domain.BusinessCompliance) bool {
	if profile == nil {
		return false
	}
	if len(r.AppliesTo.EntityTypes) > 0 && !containsFold(r.AppliesTo.EntityTypes, profile.EntityType) {
		return false
	}
	if r.AppliesTo.HasEmployees != nil && *r.AppliesTo.HasEmployees != profile.HasEmployees {
		return false
	}
	if r.AppliesTo.HasRetailSales != nil && *r.AppliesTo.HasRetailSales != profile.HasRetailSales {
		return false
	}
	return true
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules parses and validates a rule file. Invalid rules fail the whole
// load so a bad deploy is caught at startup rather than at seed time.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed rules: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed rules: %w", err)
	}

	for i, rule := range file.Rules {
		if rule.TaskName == "" {
			return nil, fmt.Errorf("seed rule %d: task_name is required", i)
		}
		if !domain.TaskCategory(rule.Category).Valid() {
			return nil, fmt.Errorf("seed rule %q: unknown category %q", rule.TaskName, rule.Category)
		}
		if !domain.TaskPriority(rule.Priority).Valid() {
			return nil, fmt.Errorf("seed rule %q: unknown priority %q", rule.TaskName, rule.Priority)
		}
		if rule.Recurring != "" && !domain.RecurrenceFrequency(rule.Recurring).Valid() {
			return nil, fmt.Errorf("seed rule %q: unknown recurrence %q", rule.TaskName, rule.Recurring)
		}
	}

	return file.Rules, nil
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
