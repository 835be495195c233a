package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillbox/pkg/apispec"
)

const petstore = `{
  "openapi": "3.0.0",
  "info": {"title": "Pet Store", "version": "1.0.0", "description": "Pets & owners"},
  "paths": {
    "/pets": {
      "get": {"summary": "List pets", "operationId": "listPets", "parameters": [{"name": "limit"}]},
      "post": {"summary": "Create pet"}
    },
    "/pets/{id}": {"delete": {}}
  }
}`

func parsedPetstore(t *testing.T) *apispec.Parsed {
	t.Helper()
	p, err := apispec.Parse(petstore, "json")
	require.NoError(t, err)
	return p
}

func TestCaseConversion(t *testing.T) {
	tests := []struct {
		in     string
		pascal string
		snake  string
	}{
		{"get_user_data", "GetUserData", "get_user_data"},
		{"listPets", "ListPets", "list_pets"},
		{"delete /pets/{id}", "DeletePetsId", "delete_pets_id"},
		{"Pet Store", "PetStore", "pet_store"},
		{"v2-api", "V2Api", "v2_api"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, Pascal(tt.in))
			assert.Equal(t, tt.snake, Snake(tt.in))
		})
	}
}

func TestCreateMCPTool(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mytools")

	res, err := CreateMCPTool("get_user_data", dir)
	require.NoError(t, err)

	assert.Equal(t, "GetUserDataTool", res.TypeName)
	assert.Equal(t, "mytools", res.Package)
	assert.Equal(t, filepath.Join(dir, "get_user_data_tool.go"), res.Path)

	info, err := os.Stat(res.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	content, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "package mytools")
	assert.Contains(t, string(content), "type GetUserDataTool struct{}")
	assert.Contains(t, string(content), `return "get_user_data"`)
}

func TestCreateMCPToolPackageFallback(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "My-Tools")

	res, err := CreateMCPTool("ping", dir)
	require.NoError(t, err)
	assert.Equal(t, "tools", res.Package)
}

func TestCreateMCPToolInvalidName(t *testing.T) {
	for _, name := range []string{"", "1tool", "../escape", "has space"} {
		_, err := CreateMCPTool(name, t.TempDir())
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestGenerateCodeGoClient(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(nil)

	res, err := g.GenerateCode(context.Background(), parsedPetstore(t), "Go", "", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "pet_store_client.go"), res.OutputPath)
	assert.Contains(t, res.Prompt, "I have generated a go client skeleton for the 'Pet Store' API")
	assert.Contains(t, res.Prompt, res.OutputPath)

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "package pet_store")
	assert.Contains(t, string(content), "func (c *Client) ListPets(")
	assert.Contains(t, string(content), "func (c *Client) PostPets(")
	assert.Contains(t, string(content), "func (c *Client) DeletePetsId(")
}

func TestGenerateCodeGoServer(t *testing.T) {
	dir := t.TempDir()

	res, err := NewGenerator(nil).GenerateCode(context.Background(), parsedPetstore(t), "go", "server", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `mux.HandleFunc("GET /pets", h.ListPets)`)
}

func TestGenerateCodePython(t *testing.T) {
	dir := t.TempDir()

	res, err := NewGenerator(nil).GenerateCode(context.Background(), parsedPetstore(t), "python", "client", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pet_store_client.py"), res.OutputPath)

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "class PetStoreClient:")
	assert.Contains(t, string(content), "def list_pets(self, **kwargs):")
}

func TestGenerateCodeUnsupported(t *testing.T) {
	g := NewGenerator(nil)

	_, err := g.GenerateCode(context.Background(), parsedPetstore(t), "cobol", "client", t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = g.GenerateCode(context.Background(), parsedPetstore(t), "python", "server", t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestGenerateCodeFallbackName(t *testing.T) {
	dir := t.TempDir()

	res, err := NewGenerator(nil).GenerateCode(context.Background(), nil, "go", "client", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "your_api_client.go"), res.OutputPath)
}

func TestGenerateDocs(t *testing.T) {
	dir := t.TempDir()

	res, err := NewGenerator(nil).GenerateDocs(context.Background(), parsedPetstore(t), "", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "pet_store_docs.markdown"), res.OutputPath)
	assert.Contains(t, res.Prompt, "I have generated Markdown documentation for the 'Pet Store' API")

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Pet Store")
	assert.Contains(t, string(content), "### GET /pets")
	assert.Contains(t, string(content), "Parameters: limit")
}

func TestGenerateDocsHTMLEscapes(t *testing.T) {
	dir := t.TempDir()

	res, err := NewGenerator(nil).GenerateDocs(context.Background(), parsedPetstore(t), "HTML", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pet_store_docs.html"), res.OutputPath)

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<p>Pets &amp; owners</p>")
}

func TestGenerateDocsUnsupported(t *testing.T) {
	_, err := NewGenerator(nil).GenerateDocs(context.Background(), parsedPetstore(t), "pdf", t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupported)
}
