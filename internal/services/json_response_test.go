package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare array", `["Go", "SQL"]`, `["Go", "SQL"]`},
		{"fenced array", "```json\n[\"Go\"]\n```", `["Go"]`},
		{"object with prose", "Here you go: {\"a\": [1]} hope it helps", `{"a": [1]}`},
		{"array of objects", `[{"skill": "Go"}]`, `[{"skill": "Go"}]`},
		{"no json", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}

func TestParseJSONResponse(t *testing.T) {
	var skills []string
	require.NoError(t, parseJSONResponse("```\n[\"Docker\", \"AWS\"]\n```", &skills))
	assert.Equal(t, []string{"Docker", "AWS"}, skills)

	err := parseJSONResponse("not json", &skills)
	assert.Error(t, err)
}
