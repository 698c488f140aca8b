package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

// extractJSON strips markdown fences and any prose around the outermost JSON
// object or array. Whichever of the two opens first wins.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	objOK := startObj != -1 && endObj > startObj
	arrOK := startArr != -1 && endArr > startArr

	switch {
	case objOK && (!arrOK || startObj < startArr):
		return text[startObj : endObj+1]
	case arrOK:
		return text[startArr : endArr+1]
	}

	return text
}
