// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolcall

import (
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// Parameters returns the JSON schema of the tool arguments.
func Parameters() jsonschema.Definition {
	comparators := make([]string, len(types.Comparators))
	for i, c := range types.Comparators {
		comparators[i] = string(c)
	}

	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"topic": {
				Type:        jsonschema.String,
				Description: "Research topic, matched as a case-insensitive substring (e.g. \"AI\", \"Security\").",
			},
			"comparator": {
				Type:        jsonschema.String,
				Enum:        comparators,
				Description: "Year relation: before, after, or in.",
			},
			"year": {
				Type:        jsonschema.Integer,
				Description: "Reference publication year.",
			},
			"citations": {
				Type:        jsonschema.Integer,
				Description: "Minimum number of citations.",
			},
		},
		Required: []string{"topic", "comparator", "year", "citations"},
	}
}
