// Package tool provides the registry that maps tool names to typed handlers.
//
// Tools are declared statically: each argument struct carries json and schema
// tags, and Func binds it to a handler while generating the JSON schema the
// model sees.
//
//	type DistanceArgs struct {
//	    Value    float64 `json:"value" desc:"The numeric value to convert" required:"true"`
//	    FromUnit string  `json:"from_unit" desc:"Source unit" enum:"km,miles" required:"true"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("convert_distance", "Convert between kilometers and miles",
//	        func(ctx context.Context, args DistanceArgs) (string, error) {
//	            ...
//	        }),
//	)
//
// # Supported Struct Tags
//
//   - desc: field description
//   - required:"true": marks the field as required
//   - enum:"a,b,c": restricts a string field to the listed values
//
// # Execution
//
// Registry.Execute returns *ErrToolNotFound for unknown names. Handler errors,
// including arguments that fail to decode, are returned as a ToolResult with
// IsError set so the caller can hand the text back to the model.
package tool
