package result

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// fenceLanguage maps a form language to the fence tag chroma understands.
func fenceLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "c++":
		return "cpp"
	case "c#":
		return "csharp"
	case "other", "":
		return ""
	default:
		return strings.ToLower(lang)
	}
}

// Markdown renders a section as markdown with code in fenced blocks.
func Markdown(sec Section) string {
	var md strings.Builder
	fmt.Fprintf(&md, "## %s\n\n", sec.Title)

	for _, b := range sec.Blocks {
		if b.Title != "" {
			fmt.Fprintf(&md, "### %s\n\n", b.Title)
		}
		if b.Code {
			fence := "```"
			// A body that itself contains a fence needs a longer one
			for strings.Contains(b.Body, fence) {
				fence += "`"
			}
			fmt.Fprintf(&md, "%s%s\n%s\n%s\n\n", fence, fenceLanguage(b.Language), strings.TrimRight(b.Body, "\n"), fence)
			continue
		}
		md.WriteString(b.Body)
		md.WriteString("\n\n")
	}

	return md.String()
}

// Render renders a section for the terminal. If glamour cannot build a
// renderer the raw markdown is returned.
func Render(sec Section, width int) string {
	md := Markdown(sec)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
