package apispec

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Validation is the outcome of Validate. Messages holds every problem and
// warning; only problems make Valid false.
type Validation struct {
	Valid    bool     `json:"is_valid"`
	Messages []string `json:"validation_messages"`
}

// Validate runs structural checks on an OpenAPI or Swagger document.
func Validate(content, format string) *Validation {
	data, err := Load(content, format)
	if err != nil {
		return &Validation{Valid: false, Messages: []string{err.Error()}}
	}

	doc, ok := data.(map[string]any)
	if !ok {
		return &Validation{Valid: false, Messages: []string{"Spec content is not a valid object."}}
	}

	problems, warnings := check(doc)
	v := &Validation{Valid: problems.ErrorOrNil() == nil, Messages: []string{}}
	if problems != nil {
		for _, e := range problems.Errors {
			v.Messages = append(v.Messages, e.Error())
		}
	}
	v.Messages = append(v.Messages, warnings...)
	return v
}

func check(doc map[string]any) (*multierror.Error, []string) {
	var (
		problems *multierror.Error
		warnings []string
	)

	_, hasOpenAPI := doc["openapi"]
	_, hasSwagger := doc["swagger"]
	if !hasOpenAPI && !hasSwagger {
		problems = multierror.Append(problems, errors.New("Spec does not specify 'openapi' or 'swagger' version."))
	}

	info, ok := doc["info"].(map[string]any)
	if !ok {
		problems = multierror.Append(problems, errors.New("'info' object is missing or invalid."))
	} else {
		if isEmpty(info["title"]) {
			problems = multierror.Append(problems, errors.New("'info.title' is missing or empty."))
		}
		if isEmpty(info["version"]) {
			problems = multierror.Append(problems, errors.New("'info.version' is missing or empty."))
		}
	}

	paths, ok := doc["paths"].(map[string]any)
	switch {
	case !ok:
		problems = multierror.Append(problems, errors.New("'paths' object is missing or invalid."))
	case len(paths) == 0:
		warnings = append(warnings, "'paths' object is empty.")
	}

	return problems, warnings
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}
