package preprocess

import "strings"

var prettyReplacer = strings.NewReplacer(
	" -- ", "&#8202;&mdash;&#8202;",
	" --\n", "&#8202;&mdash;&#8202;",
	"à", "&agrave;",
	"ï", "&iuml;",
	"ø", "&oslash;",
	"æ", "&aelig;",
)

// Pretty swaps spaced double hyphens for em dashes and a few accented letters
// for their named entities.
func Pretty(text string) string {
	return prettyReplacer.Replace(text)
}
