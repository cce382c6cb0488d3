package renderer

import (
	"bytes"
	_ "embed"
	"html/template"
	"os"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/resume.html
var defaultPageTemplate string

// PageData fills the page template.
type PageData struct {
	Title   string
	CSS     template.CSS
	Content template.HTML
}

// MarkdownToHTML renders Markdown to an HTML fragment. Raw HTML and javascript: links in the
// source are omitted, so the fragment is safe to embed in a page.
func MarkdownToHTML(markdown string) (html string, err error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var buf bytes.Buffer
	err = md.Convert([]byte(markdown), &buf)
	if err != nil {
		err = errors.Wrap(err, "failed to convert markdown to html")
		return html, err
	}

	html = buf.String()
	return html, err
}

// LoadPageTemplate parses the page template at path, or the built-in template when path is empty.
func LoadPageTemplate(path string) (tmpl *template.Template, err error) {
	source := defaultPageTemplate
	if path != "" {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to read page template: %s", path)
			return tmpl, err
		}
		source = string(data)
	}

	tmpl, err = template.New("resume").Parse(source)
	if err != nil {
		err = errors.Wrap(err, "failed to parse page template")
		return tmpl, err
	}

	return tmpl, err
}

// RenderPage wraps an HTML fragment in the page template.
func RenderPage(tmpl *template.Template, data PageData) (page string, err error) {
	if data.Title == "" {
		data.Title = "Resume"
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		err = errors.Wrap(err, "failed to render page template")
		return page, err
	}

	page = buf.String()
	return page, err
}

// readStylesheet returns the contents of cssPath, or "" when the path is empty or missing.
func readStylesheet(cssPath string) (css string, err error) {
	if cssPath == "" {
		return css, err
	}

	var data []byte
	data, err = os.ReadFile(cssPath)
	if os.IsNotExist(err) {
		err = nil
		return css, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read stylesheet: %s", cssPath)
		return css, err
	}

	css = string(data)
	return css, err
}
