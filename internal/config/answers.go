package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Answers pre-fills prompt fallbacks. Every field is optional; the
// operator still confirms each answer interactively, so a defaults file
// cannot provision anything on its own.
//
// The file is JSONC, so teams can keep comments next to their defaults:
//
//	{
//	  // shared by every project of the team
//	  "teamName": "Acme Co",
//	  "databaseUsername": "postgres",
//	}
type Answers struct {
	TeamName         string `json:"teamName,omitempty"`
	SoftwareName     string `json:"softwareName,omitempty"`
	DatabasePrefix   string `json:"databasePrefix,omitempty"`
	DatabaseUsername string `json:"databaseUsername,omitempty"`
	DatabasePassword string `json:"databasePassword,omitempty"`
}

// LoadAnswers reads a JSONC answers file. An empty path yields empty
// answers.
func LoadAnswers(path string) (*Answers, error) {
	if path == "" {
		return &Answers{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var answers Answers
	if err := json.Unmarshal(jsonc.ToJSON(data), &answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers file at %s: %w", path, err)
	}
	return &answers, nil
}
