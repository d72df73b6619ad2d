package metadata

import "github.com/google/jsonschema-go/jsonschema"

// Schema describes ModuleMetadata's shape, hand-built the way the pack's
// MCP tool-registration code builds jsonschema.Schema literals rather than
// reflected from the struct. Every parse uses its Required list as a
// self-check on the projector's own output; ParseAndValidate in strict
// mode aborts on the errors that check reports.
func (m *ModuleMetadata) Schema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"title":                      {Type: "string"},
			"description":                {Type: "string"},
			"launchUrl":                  {Type: "string"},
			"identifier":                 {Type: "string"},
			"version":                    {Type: "string"},
			"duration":                   {Type: "string"},
			"moduleType":                 {Type: "string"},
			"moduleEditionType":          {Type: "string"},
			"xapiEnabled":                {Type: "boolean"},
			"sizeOnDisk":                 {Type: "integer"},
			"hasMultipleLaunchableUnits": {Type: "boolean"},
		},
		Required: []string{"title", "launchUrl", "identifier", "moduleType"},
	}
}

// Schema describes ValidationReport's shape.
func (r *ValidationReport) Schema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"issues": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"level":   {Type: "string"},
						"field":   {Type: "string"},
						"value":   {Type: "string"},
						"message": {Type: "string"},
					},
					Required: []string{"level", "field"},
				},
			},
		},
	}
}
