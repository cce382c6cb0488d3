package extract

import (
	"encoding/xml"
	"io"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pkg/errors"
)

// pdfText concatenates the plain text of every page.
func pdfText(r io.ReaderAt, size int64) (text string, err error) {
	var reader *pdf.Reader
	reader, err = pdf.NewReader(r, size)
	if err != nil {
		err = errors.Wrap(err, "failed to read pdf")
		return text, err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		var pageText string
		pageText, err = page.GetPlainText(nil)
		if err != nil {
			err = errors.Wrapf(err, "failed to read text of page %d", i)
			return text, err
		}

		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	text = sb.String()
	return text, err
}

// docxText returns one line per paragraph of the document body.
func docxText(r io.ReaderAt, size int64) (text string, err error) {
	var doc *docx.ReplaceDocx
	doc, err = docx.ReadDocxFromMemory(r, size)
	if err != nil {
		err = errors.Wrap(err, "failed to parse docx")
		return text, err
	}
	defer doc.Close()

	text, err = paragraphsFromXML(doc.Editable().GetContent())
	return text, err
}

// paragraphsFromXML collects the w:t runs of each w:p element of WordprocessingML.
// Tabs and breaks inside a paragraph become spaces and newlines.
func paragraphsFromXML(content string) (text string, err error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	paragraphs := make([]string, 0)
	var current strings.Builder
	inText := false

	for {
		var token xml.Token
		token, err = decoder.Token()
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			err = errors.Wrap(err, "failed to parse document xml")
			return text, err
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString(" ")
			case "br":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}

	text = strings.Join(paragraphs, "\n")
	return text, err
}

// docText converts a legacy Word document through docconv.
func docText(r io.Reader) (text string, err error) {
	text, _, err = docconv.ConvertDoc(r)
	if err != nil {
		err = errors.Wrap(err, "failed to convert doc (is antiword installed?)")
		return text, err
	}
	return text, err
}
