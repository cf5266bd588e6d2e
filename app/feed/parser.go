package feed

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

var (
	imgSrcPattern   = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	imageURLPattern = regexp.MustCompile(`(?i)https?://[^\s"'<>]+\.(?:jpg|jpeg|png|gif|webp)`)
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	spacePattern    = regexp.MustCompile(`\s+`)

	entityDecoder = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&amp;", "&",
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed data into items, preserving feed order. Entries
// missing a title or a link are dropped, not reported as errors.
func (p *Parser) Run(data []byte) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry.Title == "" || entry.Link == "" {
			continue
		}

		item := Item{
			Title:       entry.Title,
			Link:        entry.Link,
			PubDate:     entry.Published,
			Description: StripHTML(entry.Description),
			Author:      p.extractAuthor(entry),
			CoverURL:    ExtractCover(entry.Description),
		}

		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed
		}

		items = append(items, item)
	}

	return items, nil
}

func (p *Parser) extractAuthor(entry *gofeed.Item) string {
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		if name := strings.TrimSpace(entry.Authors[0].Name); name != "" {
			return name
		}
	}
	if entry.Author != nil {
		return strings.TrimSpace(entry.Author.Name)
	}
	return ""
}

// ExtractCover pulls a cover image URL out of a raw item description.
// The description is entity-decoded first and searched for an img tag;
// if none matches, the undecoded text is searched for a bare image URL.
func ExtractCover(description string) string {
	decoded := entityDecoder.Replace(description)

	if match := imgSrcPattern.FindStringSubmatch(decoded); match != nil {
		return match[1]
	}

	return imageURLPattern.FindString(description)
}

// StripHTML reduces a raw item description to plain text: entities are
// decoded, all remaining tags removed, and whitespace runs collapsed.
func StripHTML(description string) string {
	text := entityDecoder.Replace(description)
	text = tagPattern.ReplaceAllString(text, " ")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
