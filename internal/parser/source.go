package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Format identifies the on-disk log format of a source.
type Format int

const (
	// FormatXML is the NPS "DTS compliant" format: one <Event> element per
	// record.
	FormatXML Format = iota
	// FormatIAS is the legacy comma-delimited IAS format.
	FormatIAS
)

func (f Format) String() string {
	if f == FormatXML {
		return "xml"
	}
	return "ias"
}

var gzipMagic = []byte{0x1f, 0x8b}

// readSource loads the full contents of a log file, transparently
// decompressing gzip. Parsing needs random access for chunking, so the
// whole file is materialized.
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, gzipMagic) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		plain, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		return plain, nil
	}
	return data, nil
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// SniffFormat detects the log format from the leading bytes: a document
// starting with '<' (after BOM and whitespace) is the XML event format,
// anything else is treated as the legacy line format.
func SniffFormat(data []byte) Format {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) > 0 && data[0] == '<' {
		return FormatXML
	}
	return FormatIAS
}
