package convert

import (
	"errors"
	"strings"
)

// ErrTitleNotFound is returned when a document has no "# " heading line
var ErrTitleNotFound = errors.New("title not found")

// Template placeholders
const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"
)

// ExtractTitle returns the text of the first level-1 heading line
func ExtractTitle(document string) (string, error) {
	for _, line := range strings.Split(document, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:]), nil
		}
	}
	return "", ErrTitleNotFound
}

// FillTemplate splices title and content into an HTML shell
func FillTemplate(template, title, content string) string {
	out := strings.ReplaceAll(template, TitlePlaceholder, title)
	return strings.ReplaceAll(out, ContentPlaceholder, content)
}

// Page is a fully rendered document
type Page struct {
	Title string
	HTML  string // filled template
}

// RenderPage converts a document and fills the template with it.
// Nothing is returned unless both conversion and title extraction succeed.
func (c *Converter) RenderPage(document, template string) (*Page, error) {
	content, err := c.ToHTML(document)
	if err != nil {
		return nil, err
	}

	title, err := ExtractTitle(document)
	if err != nil {
		return nil, err
	}

	return &Page{
		Title: title,
		HTML:  FillTemplate(template, title, content),
	}, nil
}
