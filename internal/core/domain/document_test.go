package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_IsBlank(t *testing.T) {
	assert.True(t, (&Document{}).IsBlank())
	assert.True(t, (&Document{Content: " \n\t "}).IsBlank())
	assert.False(t, (&Document{Content: "text"}).IsBlank())
}

func TestChunk_Len(t *testing.T) {
	c := Chunk{Content: "héllo", Start: 3, End: 8}
	assert.Equal(t, 5, c.Len())
}

func TestChunk_IsBlank(t *testing.T) {
	assert.True(t, Chunk{Content: "  "}.IsBlank())
	assert.False(t, Chunk{Content: " a "}.IsBlank())
}
