package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextBundle_UnmarshalWellFormed(t *testing.T) {
	raw := `{
		"readme": "# Widget",
		"changelog": "Null",
		"contributing": "Null",
		"commit_history": ["init", "add widget"],
		"docstrings": ["Render draws the widget."]
	}`
	var bundle ContextBundle
	require.NoError(t, json.Unmarshal([]byte(raw), &bundle))

	assert.Equal(t, "# Widget", bundle.Readme)
	assert.Equal(t, NotFoundSentinel, bundle.Changelog)
	assert.Equal(t, []string{"init", "add widget"}, bundle.CommitHistory)
	assert.True(t, bundle.HasReadme())
}

func TestContextBundle_MissingFieldsBecomeSentinel(t *testing.T) {
	var bundle ContextBundle
	require.NoError(t, json.Unmarshal([]byte(`{}`), &bundle))

	assert.Equal(t, NotFoundSentinel, bundle.Readme)
	assert.Equal(t, NotFoundSentinel, bundle.Changelog)
	assert.Nil(t, bundle.CommitHistory)
	assert.False(t, bundle.HasReadme())
}

func TestContextBundle_ListFieldAsSingleString(t *testing.T) {
	raw := `{"readme": "x", "commit_history": "initial commit", "docstrings": "Null"}`
	var bundle ContextBundle
	require.NoError(t, json.Unmarshal([]byte(raw), &bundle))

	assert.Equal(t, []string{"initial commit"}, bundle.CommitHistory)
	assert.Nil(t, bundle.Docstrings)
}

func TestContextBundle_ListOfObjectsFlattened(t *testing.T) {
	raw := `{"commit_history": [{"message": "init"}, "fix build"]}`
	var bundle ContextBundle
	require.NoError(t, json.Unmarshal([]byte(raw), &bundle))

	require.Len(t, bundle.CommitHistory, 2)
	assert.JSONEq(t, `{"message": "init"}`, bundle.CommitHistory[0])
	assert.Equal(t, "fix build", bundle.CommitHistory[1])
}
