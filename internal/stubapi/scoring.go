package stubapi

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// extractText pulls plain text from an uploaded resume. PDFs are parsed; any
// other payload, or a PDF that fails to parse, is read as printable bytes.
func extractText(filename string, data []byte) string {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		if text, ok := pdfText(data); ok {
			return text
		}
	}
	return printable(data)
}

func pdfText(data []byte) (string, bool) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", false
	}
	return b.String(), true
}

func printable(data []byte) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, string(data))
}

// matchScore is the share of required skills found in the text, 0-100.
func matchScore(text string, skills []string) (int, []string) {
	lower := strings.ToLower(text)
	matched := []string{}
	for _, s := range skills {
		if s != "" && strings.Contains(lower, strings.ToLower(s)) {
			matched = append(matched, s)
		}
	}
	if len(skills) == 0 {
		return 0, matched
	}
	score := int(math.Round(float64(len(matched)) / float64(len(skills)) * 100))
	return min(score, 100), matched
}

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Data Science", []string{"machine learning", "tensorflow", "statistics", "data scien"}},
	{"Software Engineering", []string{"javascript", "react", "node.js", "golang", "java", "python"}},
	{"Design", []string{"figma", "prototyping", "usability", "design systems"}},
	{"Product Management", []string{"roadmap", "product strategy", "agile"}},
}

func categorize(text string) string {
	lower := strings.ToLower(text)
	for _, c := range categoryKeywords {
		for _, k := range c.keywords {
			if strings.Contains(lower, k) {
				return c.category
			}
		}
	}
	return "General"
}
