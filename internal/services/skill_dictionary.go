package services

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed skills.yaml
var defaultSkillsYAML []byte

type SkillDictionary struct {
	Skills     []string          `yaml:"skills"`
	Variations map[string]string `yaml:"variations"`
}

var (
	defaultDictionary     *SkillDictionary
	defaultDictionaryOnce sync.Once
)

func LoadSkillDictionary(data []byte) (*SkillDictionary, error) {
	var dict SkillDictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse skill dictionary: %w", err)
	}
	if len(dict.Skills) == 0 {
		return nil, fmt.Errorf("skill dictionary has no skills")
	}
	if dict.Variations == nil {
		dict.Variations = map[string]string{}
	}
	return &dict, nil
}

// DefaultSkillDictionary returns the embedded dictionary.
func DefaultSkillDictionary() *SkillDictionary {
	defaultDictionaryOnce.Do(func() {
		dict, err := LoadSkillDictionary(defaultSkillsYAML)
		if err != nil {
			panic(err)
		}
		defaultDictionary = dict
	})
	return defaultDictionary
}

// MatchKeywords is the best-effort keyword fallback: a skill is found when
// the lowercased text contains it as-is, without dots, or without whitespace.
// Matching is plain substring containment, so "Java" also hits "JavaScript".
func (d *SkillDictionary) MatchKeywords(text string) []string {
	textLower := strings.ToLower(text)
	found := []string{}

	for _, skill := range d.Skills {
		skillLower := strings.ToLower(skill)
		if strings.Contains(textLower, skillLower) ||
			strings.Contains(textLower, strings.ReplaceAll(skillLower, ".", "")) ||
			strings.Contains(textLower, strings.Join(strings.Fields(skillLower), "")) {
			found = append(found, skill)
		}
	}

	return found
}

// Normalize maps a lowercased skill through the variation table.
func (d *SkillDictionary) Normalize(skillLower string) string {
	if v, ok := d.Variations[skillLower]; ok {
		return v
	}
	return skillLower
}
