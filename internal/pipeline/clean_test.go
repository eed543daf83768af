package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence_FencedJSON(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, stripCodeFence(in))
}

func TestStripCodeFence_NoFence(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, stripCodeFence(`{"a": 1}`))
}

func TestStripCodeFence_OnlyOuterMarkers(t *testing.T) {
	// An embedded fence inside the payload must survive.
	in := "```json\n{\"doc\": \"use ```go blocks```\"}\n```"
	assert.Equal(t, "{\"doc\": \"use ```go blocks```\"}", stripCodeFence(in))
}

func TestStripCodeFence_Whitespace(t *testing.T) {
	assert.Equal(t, "[]", stripCodeFence("  \n```json\n[]\n```  \n"))
}
