package renderer

import (
	"context"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
)

// ChromeEngine prints HTML to PDF with a headless Chromium driven over the DevTools protocol.
// The stylesheet is expected to be inlined in the page already.
type ChromeEngine struct {
	// Bin is the browser binary. Empty lets the launcher find or download one.
	Bin string
}

// RenderPDF launches a browser for the duration of one conversion.
func (c *ChromeEngine) RenderPDF(ctx context.Context, page, _ string) (pdf []byte, err error) {
	l := launcher.New().Headless(true)
	if c.Bin != "" {
		l = l.Bin(c.Bin)
	}
	defer l.Cleanup()

	var controlURL string
	controlURL, err = l.Launch()
	if err != nil {
		err = errors.Wrap(err, "failed to launch chrome")
		return pdf, err
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	err = browser.Connect()
	if err != nil {
		err = errors.Wrap(err, "failed to connect to chrome")
		return pdf, err
	}
	defer browser.Close()

	var tab *rod.Page
	tab, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		err = errors.Wrap(err, "failed to open page")
		return pdf, err
	}

	err = tab.SetDocumentContent(page)
	if err != nil {
		err = errors.Wrap(err, "failed to load html into page")
		return pdf, err
	}

	err = tab.WaitLoad()
	if err != nil {
		err = errors.Wrap(err, "failed waiting for page load")
		return pdf, err
	}

	var stream *rod.StreamReader
	stream, err = tab.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		err = errors.Wrap(err, "failed to print pdf")
		return pdf, err
	}

	pdf, err = io.ReadAll(stream)
	if err != nil {
		err = errors.Wrap(err, "failed to read pdf stream")
		return pdf, err
	}

	return pdf, err
}
