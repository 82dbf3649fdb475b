package config

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/davidvella/marc/decode"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Schema returns the JSON schema of the config file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
		Mapper:                    mapType,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "marc configuration"
	schema.Description = "Settings for the marc command."

	return json.MarshalIndent(schema, "", "  ")
}

// mapType describes the types that are written as strings in the file.
func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(decode.Handling(0)):
		return &jsonschema.Schema{
			Type: "string",
			Enum: []any{
				decode.Strict.String(),
				decode.Replace.String(),
				decode.XMLCharRefReplace.String(),
				decode.Ignore.String(),
			},
		}
	case reflect.TypeOf(time.Duration(0)):
		return &jsonschema.Schema{Type: "string", Pattern: `^-?([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`}
	}
	return nil
}

// Marshal returns c in the file layout.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
