package mcp

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/buildclub/mcp-server/internal/util"
)

const (
	TypeString = "string"
	TypeArray  = "array"
)

// Property describes one tool argument. Format is a validator tag (e.g.
// "email") applied after the type check.
type Property struct {
	Type        string
	Description string
	Format      string
	Items       *Property
}

// Schema is the input contract of a tool: a flat object of typed properties.
type Schema struct {
	Properties map[string]Property
	Required   []string
}

// Validate checks args against the schema and returns every failing field
// rather than stopping at the first. Unknown arguments are ignored, matching
// the lenient object semantics of the protocol.
func (s Schema) Validate(args map[string]any) []FieldError {
	var errs []FieldError

	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			errs = append(errs, FieldError{Field: name, Message: "required argument is missing"})
		}
	}

	for _, name := range sortedKeys(s.Properties) {
		value, ok := args[name]
		if !ok {
			continue
		}

		prop := s.Properties[name]
		if fieldErr := checkProperty(name, prop, value); fieldErr != nil {
			errs = append(errs, *fieldErr)
		}
	}

	return errs
}

func checkProperty(name string, prop Property, value any) *FieldError {
	switch prop.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return &FieldError{Field: name, Message: "must be a string"}
		}
		if prop.Format != "" && !util.CheckFormat(s, prop.Format) {
			return &FieldError{Field: name, Message: fmt.Sprintf("must be a valid %s", prop.Format)}
		}

	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return &FieldError{Field: name, Message: "must be an array"}
		}
		for i, item := range items {
			if itemErr := checkProperty(fmt.Sprintf("%s[%d]", name, i), *prop.Items, item); itemErr != nil {
				return itemErr
			}
		}

	default:
		return &FieldError{Field: name, Message: fmt.Sprintf("unsupported schema type %q", prop.Type)}
	}

	return nil
}

// MarshalJSON renders the JSON Schema object advertised by tools/list.
func (s Schema) MarshalJSON() ([]byte, error) {
	type propertyWire struct {
		Type        string `json:"type"`
		Description string `json:"description,omitempty"`
		Format      string `json:"format,omitempty"`
		Items       any    `json:"items,omitempty"`
	}

	properties := map[string]propertyWire{}
	for name, prop := range s.Properties {
		wire := propertyWire{Type: prop.Type, Description: prop.Description, Format: prop.Format}
		if prop.Items != nil {
			wire.Items = propertyWire{Type: prop.Items.Type}
		}
		properties[name] = wire
	}

	return json.Marshal(struct {
		Type       string                  `json:"type"`
		Properties map[string]propertyWire `json:"properties"`
		Required   []string                `json:"required,omitempty"`
	}{
		Type:       "object",
		Properties: properties,
		Required:   s.Required,
	})
}

func sortedKeys(properties map[string]Property) []string {
	keys := make([]string, 0, len(properties))
	for name := range properties {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
