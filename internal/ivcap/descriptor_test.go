package ivcap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivcap-works/pairwise-align/internal/schema"
	"github.com/ivcap-works/pairwise-align/internal/service"
)

func testController() RESTController {
	return RESTController{
		Command:   []string{"/align-service"},
		Port:      8080,
		ReadyPath: "/_healtz",
		Request:   service.RequestDefinition(),
		Response:  service.ResponseDefinition(),
	}
}

func TestRenderDescriptor(t *testing.T) {
	desc := New(service.Title, service.Description, testController())
	raw, err := desc.Render()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, ServiceSchemaURN, doc["$schema"])
	assert.Equal(t, ServiceURNPlaceholder, doc["$id"])
	assert.Equal(t, service.Title, doc["name"])
	assert.Equal(t, BasePolicyURN, doc["policy"])
	assert.Equal(t, RESTControllerSchemaURN, doc["controller_schema"])

	controller, ok := doc["controller"].(map[string]any)
	require.True(t, ok, "controller is not an object")
	assert.Equal(t, RESTControllerSchemaURN, controller["$schema"])
	assert.Equal(t, PackageURNPlaceholder, controller["package_urn"])
	assert.Equal(t, "/_healtz", controller["ready_path"])
	assert.Equal(t, float64(8080), controller["port"])

	request, ok := controller["request"].(map[string]any)
	require.True(t, ok, "request is not a schema document")
	assert.Equal(t, schema.MetaSchema, request["$schema"])
	assert.Equal(t, service.RequestSchemaURN, request["$id"])
	props, ok := request["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "target")
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "mode")
	assert.NotContains(t, props, schema.TagKey)

	response, ok := controller["response"].(map[string]any)
	require.True(t, ok, "response is not a schema document")
	assert.Equal(t, service.ResponseSchemaURN, response["$id"])
}

func TestRenderRejectsIncompleteController(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RESTController)
	}{
		{"no command", func(c *RESTController) { c.Command = nil }},
		{"bad port", func(c *RESTController) { c.Port = 0 }},
		{"no ready path", func(c *RESTController) { c.ReadyPath = "" }},
		{"bad request schema", func(c *RESTController) { c.Request.ID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testController()
			tt.mutate(&c)
			_, err := New(service.Title, service.Description, c).Render()
			assert.Error(t, err)
		})
	}
}

func TestRenderRequiresName(t *testing.T) {
	_, err := New("", service.Description, testController()).Render()
	assert.Error(t, err)
}
