package source

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingResult describes how a source document's bytes were interpreted.
type EncodingResult struct {
	Encoding   string  `json:"encoding"`
	Confidence float64 `json:"confidence"`
	HasBOM     bool    `json:"has_bom"`
}

// DetectEncoding picks the most plausible encoding for a source document.
// The compiler toolchain this server fronts emits UTF-8 or BOM-prefixed
// UTF-16, so detection is BOM first, UTF-8 validity second, and a legacy
// windows-1252 fallback for everything else.
func DetectEncoding(data []byte) EncodingResult {
	if len(data) == 0 {
		return EncodingResult{Encoding: "utf-8", Confidence: 1.0}
	}

	if result := detectBOM(data); result.Confidence == 1.0 {
		return result
	}

	if utf8.Valid(data) {
		return EncodingResult{Encoding: "utf-8", Confidence: 0.95}
	}

	return EncodingResult{Encoding: "windows-1252", Confidence: 0.5}
}

func detectBOM(data []byte) EncodingResult {
	if len(data) >= 3 && bytes.Equal(data[:3], []byte{0xEF, 0xBB, 0xBF}) {
		return EncodingResult{Encoding: "utf-8", Confidence: 1.0, HasBOM: true}
	}

	if len(data) >= 2 {
		if bytes.Equal(data[:2], []byte{0xFF, 0xFE}) {
			return EncodingResult{Encoding: "utf-16le", Confidence: 1.0, HasBOM: true}
		}
		if bytes.Equal(data[:2], []byte{0xFE, 0xFF}) {
			return EncodingResult{Encoding: "utf-16be", Confidence: 1.0, HasBOM: true}
		}
	}

	return EncodingResult{Encoding: "", Confidence: 0}
}

// Decode converts raw document bytes to a UTF-8 string, stripping any BOM.
func Decode(data []byte) (string, EncodingResult, error) {
	result := DetectEncoding(data)

	var enc encoding.Encoding
	switch result.Encoding {
	case "utf-8":
		if result.HasBOM {
			data = data[3:]
		}
		return string(data), result, nil
	case "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		enc = charmap.Windows1252
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", result, err
	}

	return string(decoded), result, nil
}
