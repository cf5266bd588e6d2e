package feed

import (
	"regexp"
	"strings"
)

// Built-in auto-publish keywords covering the common spellings of the
// subject across scripts. Matching is case-insensitive substring.
var autoPublishKeywords = []string{
	"碧蓝档案",
	"蔚蓝档案",
	"Blue Archive",
	"BA",
	"ブルーアーカイブ",
	"ブルアカ",
	"블루 아카이브",
}

var sourceIDPattern = regexp.MustCompile(`BV[a-zA-Z0-9]+`)

// ShouldAutoPublish reports whether a work imported with this title may be
// published without moderation. customKeywords is a newline-delimited list
// merged with the built-in set; blank lines are ignored.
func ShouldAutoPublish(title, customKeywords string) bool {
	keywords := make([]string, 0, len(autoPublishKeywords))
	keywords = append(keywords, autoPublishKeywords...)

	if customKeywords != "" {
		for _, keyword := range strings.Split(customKeywords, "\n") {
			keyword = strings.TrimSpace(keyword)
			if keyword != "" {
				keywords = append(keywords, keyword)
			}
		}
	}

	lowerTitle := strings.ToLower(title)
	for _, keyword := range keywords {
		if strings.Contains(lowerTitle, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// ExtractSourceID returns the BV code embedded in a video link, or an
// empty string when the link carries none.
func ExtractSourceID(url string) string {
	return sourceIDPattern.FindString(url)
}
