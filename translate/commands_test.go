package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkTextShortMessage(t *testing.T) {
	assert.Equal(t, []string{"hello"}, chunkText("hello", 200))
}

func TestChunkTextEmptyMessage(t *testing.T) {
	assert.Equal(t, []string{""}, chunkText("", 200))
}

func TestChunkTextSplitsOnBoundary(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := chunkText(text, 200)
	assert.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 200)
	assert.Len(t, chunks[1], 50)
	assert.Equal(t, text, chunks[0]+chunks[1])
}

func TestChunkTextExactMultiple(t *testing.T) {
	text := strings.Repeat("b", 400)
	chunks := chunkText(text, 200)
	assert.Len(t, chunks, 2)
}
