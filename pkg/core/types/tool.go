package types

// SchemaType enumerates the JSON schema types used by tool parameter
// declarations.
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeString SchemaType = "string"
)

// Schema describes a tool parameter shape. Only the subset of JSON schema
// the declared tools need is modeled.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Tool is static metadata describing a callable capability exposed to the
// model. Declared once at session creation and never mutated.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// ObjectSchema builds an object schema from named string properties and the
// required-property list.
func ObjectSchema(props map[string]string, required ...string) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema, len(props)),
		Required:   required,
	}
	for name, desc := range props {
		s.Properties[name] = &Schema{Type: TypeString, Description: desc}
	}
	return s
}
