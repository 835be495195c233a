// Package apispec loads, inspects, validates, compares and fetches OpenAPI
// or Swagger documents written in JSON or YAML.
package apispec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when content is neither JSON nor YAML.
var ErrInvalidDocument = errors.New("invalid JSON or YAML content")

// Load decodes content. format selects the decoder: "json", "openapi" and
// "swagger" mean JSON, "yaml" and "asyncapi" mean YAML; anything else tries
// JSON first and then YAML.
func Load(content, format string) (any, error) {
	var (
		data any
		err  error
	)

	switch strings.ToLower(format) {
	case "json", "openapi", "swagger":
		err = json.Unmarshal([]byte(content), &data)
	case "yaml", "yml", "asyncapi":
		err = yaml.Unmarshal([]byte(content), &data)
	default:
		if jsonErr := json.Unmarshal([]byte(content), &data); jsonErr != nil {
			data = nil
			err = yaml.Unmarshal([]byte(content), &data)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDocument, "%v", err)
	}
	return stringKeys(data), nil
}

// stringKeys rewrites YAML mappings with non-string keys, such as bare
// response codes, into map[string]any.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}

// LoadObject is Load for documents whose top level must be a mapping.
func LoadObject(content, format string) (map[string]any, error) {
	data, err := Load(content, format)
	if err != nil {
		return nil, err
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, errors.Wrap(ErrInvalidDocument, "top level is not an object")
	}
	return obj, nil
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
