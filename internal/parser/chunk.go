package parser

import "bytes"

// minChunkBytes keeps small files on a single worker; chunking only pays
// off once a source is large enough to amortize the fan-out.
const minChunkBytes = 256 << 10

// chunk is one independently parseable slice of a source. Boundaries are
// always record-boundary safe, so workers never see a partial record and
// the merged output is identical for every chunk count.
type chunk struct {
	data []byte
	// offset and line locate the chunk start within the source, for
	// diagnostics.
	offset int64
	line   int
}

// splitChunks cuts data into at most want chunks at record-safe boundaries.
// For the XML format a boundary is the byte after a closing </Event> tag;
// for the line format it is the byte after a newline.
func splitChunks(data []byte, format Format, want int) []chunk {
	if want < 1 {
		want = 1
	}
	if max := len(data) / minChunkBytes; want > max {
		want = max
	}
	if want <= 1 {
		return []chunk{{data: data, offset: 0, line: 1}}
	}

	var chunks []chunk
	target := len(data) / want
	start := 0
	line := 1
	for i := 1; i < want && start < len(data); i++ {
		cut := boundaryAfter(data, start+target, format)
		if cut <= start || cut >= len(data) {
			break
		}
		chunks = append(chunks, chunk{data: data[start:cut], offset: int64(start), line: line})
		line += bytes.Count(data[start:cut], []byte{'\n'})
		start = cut
	}
	chunks = append(chunks, chunk{data: data[start:], offset: int64(start), line: line})
	return chunks
}

// boundaryAfter returns the first record-safe cut point at or after pos.
func boundaryAfter(data []byte, pos int, format Format) int {
	if pos >= len(data) {
		return len(data)
	}
	if format == FormatIAS {
		if nl := bytes.IndexByte(data[pos:], '\n'); nl >= 0 {
			return pos + nl + 1
		}
		return len(data)
	}
	if end := bytes.Index(data[pos:], []byte(eventClose)); end >= 0 {
		return pos + end + len(eventClose)
	}
	return len(data)
}
