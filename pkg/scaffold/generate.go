package scaffold

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/apispec"
	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/prompts"
)

const (
	// DefaultCodeDir is used when GenerateCode gets no output directory.
	DefaultCodeDir = "generated_code"
	// DefaultDocsDir is used when GenerateDocs gets no output directory.
	DefaultDocsDir = "generated_docs"
	// DefaultKind is the code kind used when none is given.
	DefaultKind = "client"
	// DefaultDocFormat is the documentation format used when none is given.
	DefaultDocFormat = "Markdown"
)

// Endpoint is the template view of one path and method.
type Endpoint struct {
	Path        string
	Method      string
	Summary     string
	Description string
	OperationID string
	FuncName    string
	Parameters  []string
}

// Result is returned by GenerateCode and GenerateDocs.
type Result struct {
	Prompt     string `json:"llm_prompt"`
	OutputPath string `json:"output_path"`
}

type templateData struct {
	APIName     string
	Description string
	Endpoints   []Endpoint
}

// Generator renders skeletons and the prompt asking an agent to review them.
type Generator struct {
	prompts *prompts.Renderer
}

// NewGenerator returns a Generator. A nil renderer uses the builtin prompts.
func NewGenerator(renderer *prompts.Renderer) *Generator {
	if renderer == nil {
		renderer = prompts.Builtin()
	}
	return &Generator{prompts: renderer}
}

// GenerateCode renders a language/kind skeleton for spec into outDir.
func (g *Generator) GenerateCode(ctx context.Context, spec *apispec.Parsed, language, kind, outDir string) (*Result, error) {
	language = strings.ToLower(language)
	if kind == "" {
		kind = DefaultKind
	}
	kind = strings.ToLower(kind)
	if outDir == "" {
		outDir = DefaultCodeDir
	}

	ext, ok := languageExtensions[language]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "language '%s'", language)
	}

	data := newTemplateData(spec, "Your API")
	content, err := render(filepath.ToSlash(filepath.Join("code", language, kind+".tmpl")), data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load template %s/%s", language, kind)
	}

	out, err := writeOutput(outDir, fileStem(data.APIName)+"_"+kind+"."+ext, content, 0o644)
	if err != nil {
		return nil, err
	}

	prompt, err := g.prompts.Render(ctx, prompts.SpecCodegen, map[string]any{
		"Language":   language,
		"Kind":       kind,
		"APIName":    data.APIName,
		"OutputPath": out,
	})
	if err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("output", out).WithField("endpoints", len(data.Endpoints)).Debug("generated code skeleton")
	return &Result{Prompt: prompt, OutputPath: out}, nil
}

// GenerateDocs renders Markdown or HTML documentation for spec into outDir.
func (g *Generator) GenerateDocs(ctx context.Context, spec *apispec.Parsed, format, outDir string) (*Result, error) {
	if format == "" {
		format = DefaultDocFormat
	}
	if outDir == "" {
		outDir = DefaultDocsDir
	}
	ext := strings.ToLower(format)

	data := newTemplateData(spec, "API Documentation")
	content, err := render(filepath.ToSlash(filepath.Join("docs", ext+".tmpl")), data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load template %s", ext)
	}

	out, err := writeOutput(outDir, fileStem(data.APIName)+"_docs."+ext, content, 0o644)
	if err != nil {
		return nil, err
	}

	prompt, err := g.prompts.Render(ctx, prompts.SpecDocs, map[string]any{
		"Format":     format,
		"APIName":    data.APIName,
		"OutputPath": out,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Prompt: prompt, OutputPath: out}, nil
}

func newTemplateData(spec *apispec.Parsed, fallbackName string) templateData {
	if spec == nil {
		spec = &apispec.Parsed{}
	}
	data := templateData{
		APIName:     spec.Title(fallbackName),
		Description: spec.Description(),
	}

	for _, p := range spec.Paths() {
		for _, m := range spec.Methods(p) {
			op := spec.Endpoints[p][m]
			ep := Endpoint{
				Path:        p,
				Method:      strings.ToUpper(m),
				Summary:     op.Summary,
				Description: op.Description,
				OperationID: op.OperationID,
				Parameters:  parameterNames(op.Parameters),
			}
			if op.OperationID != "" {
				ep.FuncName = Pascal(op.OperationID)
			} else {
				ep.FuncName = Pascal(m + " " + p)
			}
			data.Endpoints = append(data.Endpoints, ep)
		}
	}
	return data
}

func parameterNames(params []any) []string {
	var names []string
	for _, p := range params {
		m, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := m["name"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}
