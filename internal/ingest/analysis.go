package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/stacks/internal/processor"
)

// analysisSchema validates per-page semantic analysis files before they are
// trusted by the processor. Keys are page indices as strings.
const analysisSchema = `{
  "type": "object",
  "patternProperties": {
    "^[0-9]+$": {
      "type": "object",
      "properties": {
        "semantic_summary": {"type": "string"},
        "key_insights": {"type": "array", "items": {"type": "string"}},
        "ontology_tags": {"type": "array", "items": {"type": "string"}}
      },
      "additionalProperties": true
    }
  },
  "additionalProperties": false
}`

// LoadAnalysis reads and validates a semantic analysis JSON file, returning
// a page-index keyed map ready for the processor.
func LoadAnalysis(path string) (map[int]*processor.PageAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis file: %w", err)
	}

	if err := validateAnalysis(data); err != nil {
		return nil, fmt.Errorf("invalid analysis file %s: %w", path, err)
	}

	var raw map[string]*processor.PageAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode analysis file: %w", err)
	}

	analysis := make(map[int]*processor.PageAnalysis, len(raw))
	for key, pa := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		analysis[idx] = pa
	}
	return analysis, nil
}

func validateAnalysis(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.json", bytes.NewReader([]byte(analysisSchema))); err != nil {
		return fmt.Errorf("load analysis schema: %w", err)
	}
	schema, err := compiler.Compile("analysis.json")
	if err != nil {
		return fmt.Errorf("compile analysis schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}
	return schema.Validate(doc)
}
