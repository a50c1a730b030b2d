package doctrail

import "strings"

// Chunk is a bounded-size slice of normalized document text prepared for
// the similarity index. Start and End are byte offsets into the source
// text and Text is always the substring source[Start:End], so consecutive
// chunks overlap by exactly prev.End - next.Start bytes and the source can
// be reconstructed by concatenating chunks with their overlaps removed.
type Chunk struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// chunkSeparators is the ordered boundary hierarchy for splitting markdown.
// Each separator is tried only when the previous granularity still yields
// over-sized pieces.
var chunkSeparators = []string{"\n# ", "\n## ", "\n### ", "\n", " "}

// span is a half-open [start, end) byte range into the source text.
type span struct {
	start, end int
}

// SplitMarkdown splits markdown text into overlapping chunks of at most
// size bytes, preferring to break at heading boundaries, then newlines,
// then spaces. A single unbroken unit larger than size is kept whole
// rather than cut mid-token. Overlap must be smaller than size.
func SplitMarkdown(text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		return nil, Errorf(EINVALID, "chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, Errorf(EINVALID, "chunk overlap must be in [0, size), got %d", overlap)
	}
	if text == "" {
		return nil, nil
	}

	pieces := splitPieces(text, 0, len(text), chunkSeparators, size)

	var chunks []Chunk
	startIdx := 0
	for startIdx < len(pieces) {
		start := pieces[startIdx].start

		// Grow the chunk while the next piece still fits. The first piece
		// is always included, so an atomic over-sized piece becomes a
		// chunk of its own.
		endIdx := startIdx
		for endIdx+1 < len(pieces) && pieces[endIdx+1].end-start <= size {
			endIdx++
		}
		end := pieces[endIdx].end

		chunks = append(chunks, Chunk{
			Text:  text[start:end],
			Start: start,
			End:   end,
		})

		if endIdx == len(pieces)-1 {
			break
		}

		// Back up over trailing pieces totaling at most overlap bytes,
		// but never to (or before) the current chunk's first piece so
		// progress is guaranteed.
		backIdx := endIdx + 1
		for backIdx-1 > startIdx && end-pieces[backIdx-1].start <= overlap {
			backIdx--
		}
		startIdx = backIdx
	}

	return chunks, nil
}

// splitPieces cuts text[start:end) into contiguous pieces no larger than
// size, trying each separator in order. Pieces that no separator can
// shrink below size are returned whole.
func splitPieces(text string, start, end int, seps []string, size int) []span {
	if end-start <= size {
		return []span{{start, end}}
	}
	if len(seps) == 0 {
		return []span{{start, end}}
	}

	cuts := findCuts(text, start, end, seps[0])
	if len(cuts) == 0 {
		return splitPieces(text, start, end, seps[1:], size)
	}

	var pieces []span
	prev := start
	for _, cut := range append(cuts, end) {
		if cut == prev {
			continue
		}
		if cut-prev <= size {
			pieces = append(pieces, span{prev, cut})
		} else {
			pieces = append(pieces, splitPieces(text, prev, cut, seps[1:], size)...)
		}
		prev = cut
	}
	return pieces
}

// findCuts returns the positions of sep within text[start:end), excluding
// a match at start itself. The separator stays attached to the piece that
// follows it.
func findCuts(text string, start, end int, sep string) []int {
	var cuts []int
	for i := start; i < end; {
		j := strings.Index(text[i:end], sep)
		if j < 0 {
			break
		}
		pos := i + j
		if pos > start {
			cuts = append(cuts, pos)
		}
		i = pos + len(sep)
	}
	return cuts
}
