package services

import (
	"math"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/resume-extractor/internal/models"
)

type MatchCalculator interface {
	CalculateSkillMatch(jdSkills, resumeSkills []string) models.SkillMatchResult
	CalculateWeightedMatch(jdSkills []models.WeightedSkill, resumeSkills []string) models.WeightedMatchResult
	IsSkillMatch(skill1, skill2 string) bool
}

type matchCalculator struct {
	dict *SkillDictionary
}

func NewMatchCalculator(dict *SkillDictionary) MatchCalculator {
	if dict == nil {
		dict = DefaultSkillDictionary()
	}
	return &matchCalculator{dict: dict}
}

// CalculateSkillMatch implements MatchCalculator.
func (m *matchCalculator) CalculateSkillMatch(jdSkills, resumeSkills []string) models.SkillMatchResult {
	if len(jdSkills) == 0 {
		extra := resumeSkills
		if extra == nil {
			extra = []string{}
		}
		return models.SkillMatchResult{
			MatchedSkills: []string{},
			MissingSkills: []string{},
			ExtraSkills:   extra,
		}
	}

	if len(resumeSkills) == 0 {
		return models.SkillMatchResult{
			MatchedSkills: []string{},
			MissingSkills: append([]string{}, jdSkills...),
			ExtraSkills:   []string{},
			TotalRequired: len(jdSkills),
		}
	}

	matched := []string{}
	missing := []string{}
	for _, jdSkill := range jdSkills {
		if m.anyMatch(jdSkill, resumeSkills) {
			matched = append(matched, jdSkill)
		} else {
			missing = append(missing, jdSkill)
		}
	}

	extra := []string{}
	for _, resumeSkill := range resumeSkills {
		if !m.anyMatch(resumeSkill, jdSkills) {
			extra = append(extra, resumeSkill)
		}
	}

	return models.SkillMatchResult{
		MatchScore:    percent(float64(len(matched)), float64(len(jdSkills))),
		MatchedSkills: dedupe(matched),
		MissingSkills: missing,
		ExtraSkills:   extra,
		TotalRequired: len(jdSkills),
		TotalMatched:  len(matched),
	}
}

// CalculateWeightedMatch implements MatchCalculator. A zero weight counts as 1.
func (m *matchCalculator) CalculateWeightedMatch(jdSkills []models.WeightedSkill, resumeSkills []string) models.WeightedMatchResult {
	result := models.WeightedMatchResult{
		MatchedSkills: []string{},
		MissingSkills: []models.WeightedSkill{},
	}

	for _, ws := range jdSkills {
		weight := ws.Weight
		if weight == 0 {
			weight = 1
		}
		result.TotalWeight += weight

		if m.anyMatch(ws.Skill, resumeSkills) {
			result.MatchedWeight += weight
			result.MatchedSkills = append(result.MatchedSkills, ws.Skill)
		} else {
			result.MissingSkills = append(result.MissingSkills, models.WeightedSkill{Skill: ws.Skill, Weight: weight})
		}
	}

	if result.TotalWeight > 0 {
		result.WeightedScore = percent(result.MatchedWeight, result.TotalWeight)
	}
	result.MatchScore = result.WeightedScore

	return result
}

// IsSkillMatch implements MatchCalculator. Skills match when equal after
// normalisation, or when one appears as a whole word inside the other. Skills
// of one or two characters only match exactly or through the variation table.
func (m *matchCalculator) IsSkillMatch(skill1, skill2 string) bool {
	s1 := strings.ToLower(strings.TrimSpace(skill1))
	s2 := strings.ToLower(strings.TrimSpace(skill2))

	if s1 == s2 {
		return true
	}

	n1 := m.dict.Normalize(s1)
	n2 := m.dict.Normalize(s2)
	if n1 == n2 {
		return true
	}

	if utf8.RuneCountInString(s1) <= 2 || utf8.RuneCountInString(s2) <= 2 {
		return false
	}

	return containsWord(s2, s1) || containsWord(s1, s2) ||
		containsWord(n2, n1) || containsWord(n1, n2)
}

func (m *matchCalculator) anyMatch(skill string, candidates []string) bool {
	for _, c := range candidates {
		if m.IsSkillMatch(skill, c) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in haystack between ASCII word
// boundaries, ignoring case. It agrees with the regexp `(?i)\bword\b`.
func containsWord(haystack, word string) bool {
	if word == "" {
		return false
	}
	haystack = strings.ToLower(haystack)
	word = strings.ToLower(word)

	for from := 0; from <= len(haystack)-len(word); {
		i := strings.Index(haystack[from:], word)
		if i < 0 {
			return false
		}
		i += from
		if isWordBoundary(haystack, i) && isWordBoundary(haystack, i+len(word)) {
			return true
		}
		from = i + 1
	}
	return false
}

func isWordBoundary(s string, i int) bool {
	before := i > 0 && isWordByte(s[i-1])
	after := i < len(s) && isWordByte(s[i])
	return before != after
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func percent(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
