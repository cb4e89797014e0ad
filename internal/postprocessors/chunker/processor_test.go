package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medrag/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		assert.Equal(t, 3000, p.chunkSize)
		assert.Equal(t, 200, p.overlap)
	})

	t.Run("custom values", func(t *testing.T) {
		p := New(WithChunkSize(500), WithOverlap(100))
		assert.Equal(t, 500, p.chunkSize)
		assert.Equal(t, 100, p.overlap)
	})

	t.Run("large overlap kept as configured", func(t *testing.T) {
		p := New(WithChunkSize(300), WithOverlap(200))
		assert.Equal(t, 200, p.overlap)
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, p.chunkSize)
		assert.Equal(t, DefaultChunkOverlap, p.overlap)
	})

	t.Run("from settings", func(t *testing.T) {
		p := FromSettings(domain.ChunkingSettings{Size: 1200, Overlap: 100})
		assert.Equal(t, 1200, p.chunkSize)
		assert.Equal(t, 100, p.overlap)
	})
}

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}

func TestChunk_EmptyInput(t *testing.T) {
	_, err := New().Chunk(context.Background(), nil, "")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	_, err = New().Chunk(context.Background(), nil, " \n\t ")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestChunk_ShortText(t *testing.T) {
	doc := &domain.Document{ID: "doc-1", UserID: "user-1", Filename: "labs.txt"}

	chunks, err := New().Chunk(context.Background(), doc, "Total cholesterol 5.2 mmol/L.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "doc-1", c.DocumentID)
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, "labs.txt", c.Filename)
	assert.Equal(t, 0, c.Index)
	assert.Equal(t, 1, c.TotalChunks)
	assert.Equal(t, 0, c.StartChar)
	assert.Equal(t, 29, c.EndChar)
	assert.Equal(t, 4, c.Metadata["word_count"])
	assert.Equal(t, 29, c.Metadata["char_count"])
	assert.Equal(t, 1, c.Metadata["total_chunks"])
}

// sentenceText returns exactly n runes of repeated sentences.
func sentenceText(n int) string {
	s := strings.Repeat("Cholesterol was measured. ", n/26+1)
	return string([]rune(s)[:n])
}

func TestChunk_SevenThousandChars(t *testing.T) {
	text := sentenceText(7000)

	chunks, err := New().Chunk(context.Background(), nil, text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, 3, c.TotalChunks)
		assert.LessOrEqual(t, c.CharCount(), 3000)
		assert.Equal(t, c.CharCount(), len([]rune(c.Content)))
	}
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, 200, chunks[i-1].EndChar-chunks[i].StartChar, "overlap between %d and %d", i-1, i)
	}
	assert.Equal(t, 7000, chunks[2].EndChar)
}

func TestChunk_HardCutWithoutBreaks(t *testing.T) {
	text := strings.Repeat("a", 7000)

	chunks, err := New().Chunk(context.Background(), nil, text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, [2]int{0, 3000}, [2]int{chunks[0].StartChar, chunks[0].EndChar})
	assert.Equal(t, [2]int{2800, 5800}, [2]int{chunks[1].StartChar, chunks[1].EndChar})
	assert.Equal(t, [2]int{5600, 7000}, [2]int{chunks[2].StartChar, chunks[2].EndChar})
}

func TestChunk_BreakPastMidpointHonoured(t *testing.T) {
	text := strings.Repeat("a", 2000) + " " + strings.Repeat("b", 2000)

	chunks, err := New().Chunk(context.Background(), nil, text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, 2001, chunks[0].EndChar)
	assert.Equal(t, 1801, chunks[1].StartChar)
	assert.Equal(t, 4001, chunks[1].EndChar)
}

func TestChunk_BreakBeforeMidpointIgnored(t *testing.T) {
	text := strings.Repeat("a", 100) + "." + strings.Repeat("a", 5000)

	chunks, err := New().Chunk(context.Background(), nil, text)
	require.NoError(t, err)

	assert.Equal(t, 3000, chunks[0].EndChar)
}

func TestChunk_MultibyteOffsets(t *testing.T) {
	text := strings.Repeat("é", 25)

	chunks, err := New(WithChunkSize(10), WithOverlap(2)).Chunk(context.Background(), nil, text)
	require.NoError(t, err)

	for _, c := range chunks {
		assert.Equal(t, c.CharCount(), len([]rune(c.Content)))
	}
	assert.Equal(t, 25, chunks[len(chunks)-1].EndChar)
}

func TestChunk_CoverageWithoutGaps(t *testing.T) {
	inputs := []string{
		sentenceText(7000),
		strings.Repeat("word ", 1999),
		strings.Repeat("x", 9001),
		"Line one\nLine two\n" + strings.Repeat("Dose 5 mg daily! ", 400),
	}

	for _, text := range inputs {
		chunks, err := New(WithChunkSize(1000), WithOverlap(150)).Chunk(context.Background(), nil, text)
		require.NoError(t, err)

		runes := []rune(text)
		var rebuilt strings.Builder
		covered := 0
		for _, c := range chunks {
			require.LessOrEqual(t, c.StartChar, covered, "gap before chunk %d", c.Index)
			require.Equal(t, string(runes[c.StartChar:c.EndChar]), c.Content)
			rebuilt.WriteString(string([]rune(c.Content)[covered-c.StartChar:]))
			covered = c.EndChar
		}
		assert.Equal(t, text, rebuilt.String())
	}
}

func TestChunk_AlwaysProgresses(t *testing.T) {
	text := strings.Repeat(". ", 500)

	chunks, err := New(WithChunkSize(4), WithOverlap(1)).Chunk(context.Background(), nil, text)
	require.NoError(t, err)

	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, chunks[i].StartChar, chunks[i-1].StartChar)
	}
}

func TestChunk_LargeOverlapHonoured(t *testing.T) {
	text := strings.Repeat("x", 1000)

	chunks, err := New(WithChunkSize(300), WithOverlap(200)).Chunk(context.Background(), nil, text)
	require.NoError(t, err)

	require.Len(t, chunks, 8)
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].StartChar+100, chunks[i].StartChar)
		assert.Equal(t, 200, chunks[i-1].EndChar-chunks[i].StartChar, "chunk %d", i)
	}
	assert.Equal(t, 1000, chunks[len(chunks)-1].EndChar)
}

func TestChunk_OverlapNotBelowSizeStillProgresses(t *testing.T) {
	text := strings.Repeat("y", 50)

	chunks, err := New(WithChunkSize(10), WithOverlap(10)).Chunk(context.Background(), nil, text)
	require.NoError(t, err)

	require.Len(t, chunks, 5)
	for i, c := range chunks {
		assert.Equal(t, i*10, c.StartChar)
	}
}
