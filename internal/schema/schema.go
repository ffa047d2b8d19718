// Package schema describes schema-tagged JSON payloads. Every request and
// response body carried by the service is tagged with its schema URN under a
// "$schema" key; the same definitions drive the JSON-Schema documents
// embedded in the IVCAP service descriptor.
package schema

import "fmt"

// MetaSchema is the JSON-Schema dialect the rendered documents declare.
const MetaSchema = "https://json-schema.org/draft/2020-12/schema"

// TagKey is the JSON key carrying a payload's schema URN.
const TagKey = "$schema"

// Field describes one property of a payload shape.
type Field struct {
	Name        string
	Type        string // JSON-Schema type: string, number, integer, boolean, array
	Description string
	Default     any
	Example     any
	Required    bool
}

// Definition describes a payload shape identified by a schema URN.
type Definition struct {
	ID          string
	Description string
	Fields      []Field
}

// Validate reports whether the definition is usable.
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("schema definition missing ID")
	}
	for _, f := range d.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %s: field with empty name", d.ID)
		}
		if f.Type == "" {
			return fmt.Errorf("schema %s: field %s has no type", d.ID, f.Name)
		}
	}
	return nil
}

// JSONSchema renders the definition as a JSON-Schema 2020-12 document. The
// "$schema" tag field itself is not listed as a property; it is an envelope
// concern, not part of the payload shape.
func (d Definition) JSONSchema() map[string]any {
	properties := make(map[string]any, len(d.Fields))
	var required []string
	for _, f := range d.Fields {
		prop := map[string]any{"type": f.Type}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		if f.Default != nil {
			prop["default"] = f.Default
		}
		if f.Example != nil {
			prop["examples"] = []any{f.Example}
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	doc := map[string]any{
		"$schema":    MetaSchema,
		"$id":        d.ID,
		"type":       "object",
		"properties": properties,
	}
	if d.Description != "" {
		doc["description"] = d.Description
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}
