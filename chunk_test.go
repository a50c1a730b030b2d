package doctrail_test

import (
	"strings"
	"testing"

	"github.com/doctrail/doctrail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reassemble concatenates chunks with their overlaps removed.
func reassemble(chunks []doctrail.Chunk) string {
	var b strings.Builder
	prevEnd := 0
	for _, c := range chunks {
		b.WriteString(c.Text[prevEnd-c.Start:])
		prevEnd = c.End
	}
	return b.String()
}

func TestSplitMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("respects size bound", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("alpha beta gamma delta epsilon ", 40)
		chunks, err := doctrail.SplitMarkdown(text, 100, 20)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		for i, c := range chunks {
			assert.LessOrEqual(t, len(c.Text), 100, "chunk %d exceeds size", i)
		}
	})

	t.Run("reconstructs original with overlap removed", func(t *testing.T) {
		t.Parallel()

		texts := []string{
			"## Intro\nsome text here\n## Usage\nmore text\nand another line\n## End\nbye",
			strings.Repeat("word ", 200),
			"single short text",
			"line one\nline two\nline three\n" + strings.Repeat("x", 50),
		}
		for _, text := range texts {
			for _, cfg := range []struct{ size, overlap int }{
				{30, 0}, {30, 10}, {64, 16}, {1000, 100},
			} {
				chunks, err := doctrail.SplitMarkdown(text, cfg.size, cfg.overlap)
				require.NoError(t, err)
				assert.Equal(t, text, reassemble(chunks),
					"size=%d overlap=%d", cfg.size, cfg.overlap)
			}
		}
	})

	t.Run("chunks are exact substrings", func(t *testing.T) {
		t.Parallel()

		text := "## One\naaa bbb ccc\n## Two\nddd eee fff"
		chunks, err := doctrail.SplitMarkdown(text, 16, 4)
		require.NoError(t, err)

		for _, c := range chunks {
			assert.Equal(t, text[c.Start:c.End], c.Text)
		}
	})

	t.Run("prefers heading boundaries", func(t *testing.T) {
		t.Parallel()

		text := "intro text\n## Section A\ncontent a\n## Section B\ncontent b"
		chunks, err := doctrail.SplitMarkdown(text, 25, 0)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		var headingStarts int
		for _, c := range chunks[1:] {
			if strings.HasPrefix(c.Text, "\n## ") {
				headingStarts++
			}
		}
		assert.Equal(t, 2, headingStarts)
	})

	t.Run("prefers top-level heading boundaries over subheadings", func(t *testing.T) {
		t.Parallel()

		text := "# Title\nalpha beta\n# Second\ngamma delta\n## Sub\nepsilon"
		chunks, err := doctrail.SplitMarkdown(text, 25, 0)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		assert.True(t, strings.HasPrefix(chunks[1].Text, "\n# Second"))
		assert.Equal(t, text, reassemble(chunks))
	})

	t.Run("keeps oversized atomic unit whole", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("z", 80)
		text := "short\n" + long + "\nshort"
		chunks, err := doctrail.SplitMarkdown(text, 20, 0)
		require.NoError(t, err)

		var found bool
		for _, c := range chunks {
			if strings.Contains(c.Text, long) {
				found = true
			}
		}
		assert.True(t, found, "the unbroken run must survive in one chunk")
		assert.Equal(t, text, reassemble(chunks))
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		t.Parallel()

		chunks, err := doctrail.SplitMarkdown("", 100, 10)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("rejects overlap >= size", func(t *testing.T) {
		t.Parallel()

		_, err := doctrail.SplitMarkdown("text", 10, 10)
		require.Error(t, err)
		assert.Equal(t, doctrail.EINVALID, doctrail.ErrorCode(err))
	})
}
