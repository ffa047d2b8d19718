// Package ivcap renders the IVCAP service descriptor. The descriptor is
// registered with the platform at deploy time; the #SERVICE_URN# and
// #PACKAGE_URN# placeholders are substituted by the deployment tooling.
package ivcap

import (
	"encoding/json"
	"fmt"

	"github.com/ivcap-works/pairwise-align/internal/schema"
)

// Schema URNs and the default policy of a platform service.
const (
	ServiceSchemaURN        = "urn:ivcap:schema.service.2"
	RESTControllerSchemaURN = "urn:ivcap:schema.service.rest.1"
	BasePolicyURN           = "urn:ivcap:policy:ivcap.base.service"

	ServiceURNPlaceholder = "#SERVICE_URN#"
	PackageURNPlaceholder = "#PACKAGE_URN#"
)

// RESTController describes how the platform runs and talks to a REST
// service container.
type RESTController struct {
	Schema     string            `json:"$schema"`
	PackageURN string            `json:"package_urn"`
	Command    []string          `json:"command"`
	Port       int               `json:"port"`
	ReadyPath  string            `json:"ready_path"`
	Request    schema.Definition `json:"-"`
	Response   schema.Definition `json:"-"`
}

// Service is the top-level descriptor document.
type Service struct {
	Schema           string         `json:"$schema"`
	ID               string         `json:"$id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Policy           string         `json:"policy"`
	ControllerSchema string         `json:"controller_schema"`
	Controller       RESTController `json:"controller"`
}

// New assembles a descriptor with the platform placeholders and schema
// URNs filled in.
func New(name, description string, controller RESTController) Service {
	controller.Schema = RESTControllerSchemaURN
	if controller.PackageURN == "" {
		controller.PackageURN = PackageURNPlaceholder
	}
	return Service{
		Schema:           ServiceSchemaURN,
		ID:               ServiceURNPlaceholder,
		Name:             name,
		Description:      description,
		Policy:           BasePolicyURN,
		ControllerSchema: RESTControllerSchemaURN,
		Controller:       controller,
	}
}

func (c RESTController) Validate() error {
	if len(c.Command) == 0 {
		return fmt.Errorf("controller has no command")
	}
	if c.Port <= 0 {
		return fmt.Errorf("controller port %d is not valid", c.Port)
	}
	if c.ReadyPath == "" {
		return fmt.Errorf("controller has no ready path")
	}
	if err := c.Request.Validate(); err != nil {
		return fmt.Errorf("request schema: %w", err)
	}
	if err := c.Response.Validate(); err != nil {
		return fmt.Errorf("response schema: %w", err)
	}
	return nil
}

// MarshalJSON renders the request and response definitions as embedded
// JSON-Schema documents.
func (c RESTController) MarshalJSON() ([]byte, error) {
	type alias RESTController
	return json.Marshal(struct {
		alias
		Request  map[string]any `json:"request"`
		Response map[string]any `json:"response"`
	}{
		alias:    alias(c),
		Request:  c.Request.JSONSchema(),
		Response: c.Response.JSONSchema(),
	})
}

// Render validates the descriptor and returns it as indented JSON.
func (s Service) Render() ([]byte, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("descriptor has no name")
	}
	if err := s.Controller.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}
