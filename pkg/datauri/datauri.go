// Package datauri converts raw image bytes into the portable data:
// URL text encoding stored on listing image fields.
package datauri

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Encode wraps data in a data: URL, sniffing the media type from the
// leading bytes.
func Encode(data []byte) string {
	mime := http.DetectContentType(data)
	// DetectContentType appends a charset for text types; the data:
	// prefix carries only the bare media type.
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// IsDataURI reports whether s already carries the data: scheme.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}
