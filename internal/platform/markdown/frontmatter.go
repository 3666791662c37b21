package markdown

import (
	"fmt"
	"strings"
)

const separator = "---\n"

// SplitFrontmatter separates a leading YAML block from the document body.
// Content without frontmatter returns a nil block and the whole body.
func SplitFrontmatter(content string) ([]byte, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, separator) {
		return nil, content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	if strings.HasPrefix(rest, separator) {
		return []byte{}, strings.TrimPrefix(rest, separator), nil
	}
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		if strings.HasSuffix(rest, "\n---") {
			return []byte(strings.TrimSuffix(rest, "\n---")), "", nil
		}
		return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	return []byte(rest[:idx]), rest[idx+len("\n"+separator):], nil
}
