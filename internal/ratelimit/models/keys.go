package models

import "strings"

const keyPrefix = "landledger:rl"

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so an identifier containing ':' cannot address a neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// CallerKey builds the bucket key for one caller and endpoint class.
func CallerKey(class EndpointClass, caller string) string {
	return keyPrefix + ":" + SanitizeKeySegment(string(class)) + ":" + SanitizeKeySegment(caller)
}
