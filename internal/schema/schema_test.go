package schema

import (
	"encoding/json"
	"testing"
)

func testDefinition() Definition {
	return Definition{
		ID:          "urn:sd.ivcap:schema.test.1",
		Description: "test payload",
		Fields: []Field{
			{Name: "target", Type: "string", Description: "the target", Example: "GAACT", Required: true},
			{Name: "mode", Type: "string", Default: "local"},
			{Name: "match_score", Type: "number", Default: 1.0},
		},
	}
}

func TestJSONSchemaDocument(t *testing.T) {
	doc := testDefinition().JSONSchema()

	if doc["$schema"] != MetaSchema {
		t.Fatalf("$schema = %v", doc["$schema"])
	}
	if doc["$id"] != "urn:sd.ivcap:schema.test.1" {
		t.Fatalf("$id = %v", doc["$id"])
	}
	if doc["type"] != "object" {
		t.Fatalf("type = %v", doc["type"])
	}

	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %v", doc)
	}
	if _, tagged := props[TagKey]; tagged {
		t.Fatal("$schema tag must not appear as a property")
	}
	if len(props) != 3 {
		t.Fatalf("got %d properties, want 3", len(props))
	}

	target := props["target"].(map[string]any)
	if target["description"] != "the target" {
		t.Fatalf("target description = %v", target["description"])
	}
	examples := target["examples"].([]any)
	if len(examples) != 1 || examples[0] != "GAACT" {
		t.Fatalf("target examples = %v", examples)
	}

	mode := props["mode"].(map[string]any)
	if mode["default"] != "local" {
		t.Fatalf("mode default = %v", mode["default"])
	}

	required, ok := doc["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "target" {
		t.Fatalf("required = %v", doc["required"])
	}
}

func TestJSONSchemaMarshals(t *testing.T) {
	raw, err := json.Marshal(testDefinition().JSONSchema())
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if decoded["$id"] != "urn:sd.ivcap:schema.test.1" {
		t.Fatalf("round-tripped $id = %v", decoded["$id"])
	}
}

func TestValidate(t *testing.T) {
	if err := testDefinition().Validate(); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}
	if err := (Definition{}).Validate(); err == nil {
		t.Fatal("empty definition accepted")
	}
	bad := Definition{ID: "urn:x", Fields: []Field{{Name: "f"}}}
	if err := bad.Validate(); err == nil {
		t.Fatal("typeless field accepted")
	}
}
