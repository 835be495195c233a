// Package scaffold renders boilerplate from embedded templates: MCP tool
// stubs and client/server or documentation skeletons derived from a parsed
// API document.
package scaffold

import (
	"bytes"
	"embed"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode"

	"github.com/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

var (
	// ErrUnsupported is returned when no template exists for a target.
	ErrUnsupported = errors.New("unsupported template target")
	// ErrInvalidName is returned for a tool name that cannot become a file
	// and type name.
	ErrInvalidName = errors.New("invalid tool name")
)

var (
	toolNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	packagePattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

var languageExtensions = map[string]string{
	"go":     "go",
	"python": "py",
}

// Pascal converts snake, kebab, camel or path-like text to PascalCase.
func Pascal(s string) string {
	var sb strings.Builder
	for _, w := range words(s) {
		runes := []rune(w)
		sb.WriteRune(unicode.ToUpper(runes[0]))
		sb.WriteString(string(runes[1:]))
	}
	return sb.String()
}

// Snake converts text to lower snake_case.
func Snake(s string) string {
	return strings.ToLower(strings.Join(words(s), "_"))
}

// words splits s on non-alphanumeric runes and lower-to-upper case changes.
func words(s string) []string {
	var (
		out  []string
		cur  []rune
		prev rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return out
}

// fileStem mirrors how output files are named from an API title: lowercased
// with spaces replaced by underscores.
func fileStem(apiName string) string {
	return strings.ReplaceAll(strings.ToLower(apiName), " ", "_")
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"pascal":    Pascal,
		"snake":     Snake,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trimSlash": func(s string) string { return strings.TrimLeft(s, "/") },
		"join":      strings.Join,
	}
}

func render(name string, data any) (string, error) {
	content, err := templateFS.ReadFile(path.Join("templates", name))
	if err != nil {
		return "", errors.Wrapf(ErrUnsupported, "template %s", name)
	}

	tmpl, err := template.New(name).Funcs(funcMap()).Parse(string(content))
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %s", name)
	}
	return buf.String(), nil
}

func writeOutput(dir, name, content string, mode os.FileMode) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	out := filepath.Join(dir, name)
	if err := os.WriteFile(out, []byte(content), mode); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", out)
	}
	return out, nil
}
