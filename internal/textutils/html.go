package textutils

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements whose closing tag ends a visual line. Table cells
// are handled separately: a cell boundary becomes a single space, so that
// "label | value" rows survive as "label value" on one line.
var blockTags = map[string]bool{
	"p": true, "div": true, "tr": true, "li": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var cellTags = map[string]bool{
	"td": true, "th": true,
}

// HTMLToText strips tags from an HTML email body and returns plain text.
// Block-level closing tags become newlines, table-cell boundaries become
// spaces, and entities are decoded. Script and style content is dropped.
func HTMLToText(htmlBody string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlBody))

	var sb strings.Builder
	skipDepth := 0
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			return tidyLines(sb.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				skipDepth++
			case "br":
				sb.WriteString("\n")
			}
		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "br" {
				sb.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if skipDepth > 0 {
					skipDepth--
				}
			case cellTags[tag]:
				sb.WriteString(" ")
			case blockTags[tag]:
				sb.WriteString("\n")
			}
		case html.TextToken:
			if skipDepth == 0 {
				// Text tokens arrive with entities already decoded.
				sb.Write(tokenizer.Text())
			}
		}
	}
}

// tidyLines trims each line and drops runs of blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Preview returns the first n runes of s with newlines flattened, for use
// in diagnostic messages.
func Preview(s string, n int) string {
	flat := CollapseWhitespace(s)
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}
