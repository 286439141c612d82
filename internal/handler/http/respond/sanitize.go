package respond

import (
	"regexp"
)

var (
	// apiKey=... クエリ値 (url.Error に URL が含まれる場合)
	apiKeyQueryPattern = regexp.MustCompile(`(?i)(apikey=)[^&\s"]+`)

	// X-Api-Key / Authorization ヘッダー値
	apiKeyHeaderPattern = regexp.MustCompile(`(?i)(x-api-key:\s*|authorization:\s*bearer\s+)\S+`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks credentials in an arbitrary message.
func SanitizeString(msg string) string {
	msg = apiKeyQueryPattern.ReplaceAllString(msg, "${1}****")
	msg = apiKeyHeaderPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
