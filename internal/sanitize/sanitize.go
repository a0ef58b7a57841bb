// Package sanitize cleans user supplied markup before it is stored.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy

	postOnce sync.Once
	post     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})

	return strict
}

func postPolicy() *bluemonday.Policy {
	postOnce.Do(func() {
		post = bluemonday.UGCPolicy()
		post.AllowAttrs("title").OnElements("abbr", "acronym")
		post.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	})

	return post
}

// StripTags removes every tag, including the contents of script and style elements,
// and returns plain text without angle brackets. Invalid UTF-8 bytes are dropped;
// surrounding whitespace is kept.
func StripTags(input string) string {
	text := strings.ToValidUTF8(input, "")
	text = html.UnescapeString(strictPolicy().Sanitize(text))

	return strings.NewReplacer("<", "", ">", "").Replace(text)
}

// FilterPostHTML keeps the markup allowed in post content and drops the rest.
func FilterPostHTML(input string) string {
	return postPolicy().Sanitize(input)
}

// Description returns input unchanged for users allowed to post unfiltered HTML
// and the filtered markup for everybody else.
func Description(input string, hasPrivilege bool) string {
	if hasPrivilege {
		return input
	}

	return FilterPostHTML(input)
}
