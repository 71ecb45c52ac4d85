package pdf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// checkWellFormed rejects markup with unbalanced or mismatched tags.
// Void elements need no end tag.
func checkWellFormed(src string) error {
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("%w: empty document", ErrInvalidHTML)
	}

	z := html.NewTokenizer(strings.NewReader(src))
	var open []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %v", ErrInvalidHTML, err)
			}
			if len(open) > 0 {
				return fmt.Errorf("%w: unclosed <%s>", ErrInvalidHTML, open[len(open)-1])
			}
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); !voidElements[tag] {
				open = append(open, tag)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			if len(open) == 0 || open[len(open)-1] != tag {
				return fmt.Errorf("%w: unexpected </%s>", ErrInvalidHTML, tag)
			}
			open = open[:len(open)-1]
		}
	}
}
