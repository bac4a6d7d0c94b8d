package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	jsv "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var embeddedSchema string

// compiledSchema compiles embedded schema once, it is immutable
var compiledSchema = sync.OnceValues(func() (*jsv.Schema, error) {
	doc, err := jsv.UnmarshalJSON(strings.NewReader(embeddedSchema))
	if err != nil {
		return nil, fmt.Errorf("parse embedded schema: %w", err)
	}
	c := jsv.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add embedded schema: %w", err)
	}
	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}
	return sch, nil
})

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema.
// Fields unknown to the schema mean schema.json is out of date and must be regenerated.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	c := *cfg
	if c.Sources == nil {
		c.Sources = []SourceConfig{} // schema expects array, not null
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return validateJSON(data)
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}

func validateJSON(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	doc, err := jsv.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
