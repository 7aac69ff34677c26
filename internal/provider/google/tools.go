package google

import (
	"encoding/json"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/convagent"
)

func convertTools(tools []ai.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	funcs := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		funcs[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertSchema(t.Parameters),
		}
	}

	return []*genai.Tool{{FunctionDeclarations: funcs}}
}

// convertSchema converts a tool's JSON Schema into a genai Schema.
func convertSchema(raw json.RawMessage) *genai.Schema {
	if len(raw) == 0 {
		return nil
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil
	}
	return convertSchemaObject(schema)
}

var schemaTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func convertSchemaObject(schema map[string]any) *genai.Schema {
	result := &genai.Schema{}
	if t, ok := schema["type"].(string); ok {
		result.Type = schemaTypes[t]
	}
	if desc, ok := schema["description"].(string); ok {
		result.Description = desc
	}
	result.Enum = stringsOf(schema["enum"])
	result.Required = stringsOf(schema["required"])

	if props, ok := schema["properties"].(map[string]any); ok {
		result.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				result.Properties[name] = convertSchemaObject(m)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		result.Items = convertSchemaObject(items)
	}
	return result
}

func stringsOf(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
