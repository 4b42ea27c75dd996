package seo

import (
	"regexp"
	"strings"
)

// botSignatures is the fixed list of crawler and social-preview
// fetcher markers matched against the user-agent string. The same
// pattern is embedded in every generated page's redirect script, so
// the server-side classifier and the shipped script cannot drift.
var botSignatures = []string{
	"bot",
	"googlebot",
	"crawler",
	"spider",
	"robot",
	"crawling",
	"facebookexternalhit",
	"whatsapp",
	"line",
}

var botPattern = strings.Join(botSignatures, "|")

var botRegexp = regexp.MustCompile("(?i)" + botPattern)

// BotPattern returns the alternation pattern shared between IsBot and
// the inline redirect script.
func BotPattern() string {
	return botPattern
}

// IsBot classifies a user-agent string as crawler or human, matching
// case-insensitively against the signature list.
func IsBot(userAgent string) bool {
	return botRegexp.MatchString(userAgent)
}
