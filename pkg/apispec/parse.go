package apispec

import (
	"sort"
	"strings"
)

var httpMethods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "options": true, "head": true,
}

// Operation is one method of a path item.
type Operation struct {
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	OperationID string         `json:"operation_id,omitempty"`
	Parameters  []any          `json:"parameters"`
	RequestBody any            `json:"request_body,omitempty"`
	Responses   map[string]any `json:"responses"`
}

// Parsed is the extracted shape of an API document.
type Parsed struct {
	Info       map[string]any                  `json:"info"`
	Servers    []any                           `json:"servers"`
	Endpoints  map[string]map[string]Operation `json:"endpoints"`
	Components map[string]any                  `json:"components"`
}

// Title returns info.title, or fallback when it is missing.
func (p *Parsed) Title(fallback string) string {
	if t := asString(p.Info["title"]); t != "" {
		return t
	}
	return fallback
}

// Description returns info.description.
func (p *Parsed) Description() string {
	return asString(p.Info["description"])
}

// Paths returns the endpoint paths in sorted order.
func (p *Parsed) Paths() []string {
	paths := make([]string, 0, len(p.Endpoints))
	for path := range p.Endpoints {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Methods returns the methods of path in sorted order.
func (p *Parsed) Methods(path string) []string {
	methods := make([]string, 0, len(p.Endpoints[path]))
	for m := range p.Endpoints[path] {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Parse decodes content and extracts info, servers, endpoints and
// components. Path items without a known HTTP method are dropped.
func Parse(content, format string) (*Parsed, error) {
	doc, err := LoadObject(content, format)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc), nil
}

// FromDocument extracts a Parsed from an already decoded document.
func FromDocument(doc map[string]any) *Parsed {
	p := &Parsed{
		Info:       asMap(doc["info"]),
		Endpoints:  map[string]map[string]Operation{},
		Components: asMap(doc["components"]),
	}
	if p.Info == nil {
		p.Info = map[string]any{}
	}
	if p.Components == nil {
		p.Components = map[string]any{}
	}
	if servers, ok := doc["servers"].([]any); ok {
		p.Servers = servers
	} else {
		p.Servers = []any{}
	}

	for path, item := range asMap(doc["paths"]) {
		methods := map[string]Operation{}
		for method, raw := range asMap(item) {
			method = strings.ToLower(method)
			if !httpMethods[method] {
				continue
			}
			op := asMap(raw)
			operation := Operation{
				Summary:     asString(op["summary"]),
				Description: asString(op["description"]),
				OperationID: asString(op["operationId"]),
				RequestBody: op["requestBody"],
				Parameters:  []any{},
				Responses:   map[string]any{},
			}
			if params, ok := op["parameters"].([]any); ok {
				operation.Parameters = params
			}
			if responses := asMap(op["responses"]); responses != nil {
				operation.Responses = responses
			}
			methods[method] = operation
		}
		if len(methods) > 0 {
			p.Endpoints[path] = methods
		}
	}

	return p
}
