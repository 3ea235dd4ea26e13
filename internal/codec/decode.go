package codec

import (
	"encoding/base64"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// DecodePayload decodes a base64 payload embedded in a lab file. Payloads
// that are not valid base64 or not UTF-8 text are returned as they are.
func DecodePayload(data string, logger *slog.Logger) string {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		logger.Warn("payload is not base64, keeping raw text", "error", err)
		return data
	}
	if !utf8.Valid(decoded) {
		logger.Warn("decoded payload is not UTF-8, keeping raw text")
		return data
	}
	return string(decoded)
}
