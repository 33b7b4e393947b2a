package report

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/sprite-ai/patchlint/internal/model"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
)

// ToolVersion is reported as the SARIF driver version.
var ToolVersion = "dev"

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

var sarifRules = []sarifRule{
	{ID: "io", ShortDescription: sarifMessage{Text: "Patch file could not be read"}},
	{ID: "structure", ShortDescription: sarifMessage{Text: "Patch header, file markers and hunks"}},
	{ID: "braces", ShortDescription: sarifMessage{Text: "Braces introduced by added lines are balanced"}},
	{ID: "branding", ShortDescription: sarifMessage{Text: "Added lines use the required branding"}},
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "error"
	case model.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// SARIF writes the summary as a SARIF 2.1.0 log.
func SARIF(w io.Writer, s *model.RunSummary) error {
	results := make([]sarifResult, 0, s.IssueCount())
	for _, r := range s.Reports {
		uri := filepath.ToSlash(r.Path)
		if uri == "" {
			uri = r.Name
		}
		for _, i := range r.Issues {
			loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: uri},
			}}
			if !i.FileLevel() {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: i.Line}
			}
			results = append(results, sarifResult{
				RuleID:    i.Kind.String(),
				Level:     sarifLevel(i.Severity),
				Message:   sarifMessage{Text: i.Message},
				Locations: []sarifLocation{loc},
			})
		}
	}

	log := sarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "patchlint",
				Version: ToolVersion,
				Rules:   sarifRules,
			}},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
