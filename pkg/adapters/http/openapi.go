package http

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

// requestSchema is the OperateRequest schema every /operate body is checked against.
var requestSchema = mustSchema("OperateRequest")

// Spec returns the embedded OpenAPI document.
func Spec() []byte { return rawSpec }

func loadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

func mustSchema(name string) *openapi3.Schema {
	doc, err := loadSpec()
	if err != nil {
		panic(err)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref.Value == nil {
		panic(fmt.Sprintf("openapi schema %q missing", name))
	}
	return ref.Value
}

// validateRequest checks a decoded JSON body against the OperateRequest schema.
func validateRequest(body any) error {
	return requestSchema.VisitJSON(body)
}
