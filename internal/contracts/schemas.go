// Package contracts validates inbound payloads against their JSON schemas
// before they reach the core.
package contracts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/search-request/v1.json
var searchRequestSchemaV1 string

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	const url = "schemas/search-request/v1.json"
	if err := compiler.AddResource(url, strings.NewReader(searchRequestSchemaV1)); err != nil {
		log.Fatalf("failed to add schema resource %s: %v", url, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		log.Fatalf("failed to compile schema %s: %v", url, err)
	}

	compiledSchemas["SearchRequest/1.0.0"] = schema
}

// ValidateSearchRequest checks a raw search request body against the v1
// contract.
func ValidateSearchRequest(body []byte) error {
	return validate("SearchRequest", "1.0.0", body)
}

func validate(payloadType, version string, body []byte) error {
	key := fmt.Sprintf("%s/%s", payloadType, version)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for payload '%s' version '%s' not found", payloadType, version)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("request body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
