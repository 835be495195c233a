package apispec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareIdentical(t *testing.T) {
	d, err := Compare(petstoreJSON, petstoreJSON, "")
	require.NoError(t, err)
	assert.False(t, d.HasChanges)
	assert.Empty(t, d.Unified)
}

func TestCompareDetectsChanges(t *testing.T) {
	a := `{"info": {"title": "A", "version": "1"}, "paths": {"/a": {}, "/b": {}}}`
	b := `{"info": {"title": "B", "version": "1"}, "paths": {"/a": {}, "/c": {}}, "servers": []}`

	d, err := Compare(a, b, "json")
	require.NoError(t, err)

	assert.True(t, d.HasChanges)
	assert.Equal(t, []string{"paths./c", "servers"}, d.Added)
	assert.Equal(t, []string{"paths./b"}, d.Removed)
	assert.Equal(t, []string{"info.title"}, d.Changed)
	assert.Contains(t, d.Unified, "-  title: A")
	assert.Contains(t, d.Unified, "+  title: B")
}

func TestCompareIgnoresListOrder(t *testing.T) {
	a := `{"tags": ["x", "y", {"name": "z"}]}`
	b := `{"tags": [{"name": "z"}, "y", "x"]}`

	d, err := Compare(a, b, "")
	require.NoError(t, err)
	assert.False(t, d.HasChanges)
}

func TestCompareListChange(t *testing.T) {
	d, err := Compare(`{"tags": ["x"]}`, `{"tags": ["x", "y"]}`, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"tags"}, d.Changed)
}

func TestCompareAcrossEncodings(t *testing.T) {
	d, err := Compare(`{"n": 1, "s": "v"}`, "n: 1\ns: v\n", "")
	require.NoError(t, err)
	assert.False(t, d.HasChanges)
}

func TestCompareInvalid(t *testing.T) {
	_, err := Compare("{bad", "{}", "json")
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
