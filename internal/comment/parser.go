// Package comment parses the rendered text of one comment widget into its
// structured fields. The widget text has a fixed line layout, not a grammar:
// an optional bracketed tag, the author, the posted date, a rating counter,
// the comment body, and a trailing "Reply" action label.
package comment

import "strings"

// Comment is the structured form of one comment block.
type Comment struct {
	Tag      string
	Author   string
	PostedAt string
	Body     string
}

// Parse splits one rendered comment block into its fields.
//
// Blocks with fewer than five lines carry no recognizable structure and
// are kept whole as the body. Otherwise the first line is checked for a
// [tag] marker; the rating-counter line and the trailing action label are
// discarded unconditionally.
func Parse(raw string) Comment {
	lines := strings.Split(raw, "\n")
	if len(lines) < 5 {
		return Comment{Body: strings.TrimSpace(raw)}
	}

	if strings.HasPrefix(lines[0], "[") && strings.HasSuffix(lines[0], "]") {
		return Comment{
			Tag:      lines[0],
			Author:   lines[1],
			PostedAt: lines[2],
			Body:     strings.TrimSpace(strings.Join(lines[4:len(lines)-1], "\n")),
		}
	}

	return Comment{
		Author:   lines[0],
		PostedAt: lines[1],
		Body:     strings.TrimSpace(strings.Join(lines[3:len(lines)-1], "\n")),
	}
}
