package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	EncodingUTF8        = "utf-8"
	EncodingUTF16       = "utf-16"
	EncodingWindows1252 = "windows-1252"
)

func SupportedEncodings() []string {
	return []string{EncodingUTF8, EncodingUTF16, EncodingWindows1252}
}

// decodingReader converts r to UTF-8. A byte order mark, when present, takes
// precedence over the configured encoding and is stripped.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	var fallback transform.Transformer
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf8", EncodingUTF8:
		fallback = unicode.UTF8.NewDecoder()
	case "utf16", EncodingUTF16, "utf-16le":
		fallback = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case "cp1252", "windows1252", EncodingWindows1252:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q (supported: %s)", encoding, strings.Join(SupportedEncodings(), ", "))
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback)), nil
}
