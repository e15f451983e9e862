package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

// Feedback scraped from social channels often arrives as markdown with
// embedded links; strip both before handing the text to VADER.
func stripLinks(input string) string {
	linkPattern := regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	input = linkPattern.ReplaceAllString(input, "$1")

	urlPattern := regexp.MustCompile(`https?://\S+|www\.\S+`)
	return urlPattern.ReplaceAllString(input, "")
}

func markdownToPlainText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return stripLinks(plainText)
}

// CrossCheckLabel runs VADER over the translated text as an advisory label
// for the processing report. It never replaces the lexicon score.
func CrossCheckLabel(text string) string {
	plainText := markdownToPlainText(text)

	scores := analyzer.PolarityScores(plainText)

	switch {
	case scores.Compound >= 0.20:
		return "positive"
	case scores.Compound <= -0.20:
		return "negative"
	default:
		return "neutral"
	}
}
