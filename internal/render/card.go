// Package render turns profile metadata into a standalone HTML card.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/skip2/go-qrcode"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"nostr-metadata/internal/nips"
	"nostr-metadata/internal/nostr"
	"nostr-metadata/internal/util"
	"nostr-metadata/templates"
)

// DefaultQRSize is used when Options.QRSize is unset
const DefaultQRSize = 256

const anonymousTitle = "Anonymous"

// Options tunes card rendering
type Options struct {
	QRSize int
}

// Card is the view model for one profile
type Card struct {
	Title         string
	Name          string
	About         template.HTML
	Picture       string
	Banner        string
	Website       string
	Nip05         string
	Lud16         string
	LNURL         string
	LightningURI  template.URL
	QRCodeDataURL template.URL
}

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	aboutPolicy = bluemonday.UGCPolicy()

	cardTemplate     *template.Template
	cardTemplateOnce sync.Once
	cardTemplateErr  error
)

// NewCard builds the card for m. Malformed nip05 or lud16 values are shown
// as-is without the derived links.
func NewCard(m *nostr.Metadata, opts Options) *Card {
	if opts.QRSize <= 0 {
		opts.QRSize = DefaultQRSize
	}

	card := &Card{Title: anonymousTitle}
	card.Name, _ = m.Name()
	card.Picture = publicURL(m.Picture())
	card.Banner = publicURL(m.Banner())
	card.Website = publicURL(m.Website())

	if displayName, ok := m.DisplayName(); ok && displayName != "" {
		card.Title = displayName
	} else if card.Name != "" {
		card.Title = card.Name
	}

	if about, ok := m.About(); ok && about != "" {
		card.About = renderAbout(about)
	}

	if nip05, ok := m.Nip05(); ok && nip05 != "" {
		card.Nip05 = nip05
		if id, err := nips.ParseNIP05(nip05); err == nil {
			card.Nip05 = id.DisplayName()
		} else {
			slog.Warn("invalid nip05 in profile", "nip05", nip05, "error", err)
		}
	}

	if lud16, ok := m.Lud16(); ok && lud16 != "" {
		card.Lud16 = lud16
		addr, err := nips.ParseLightningAddress(lud16)
		if err != nil {
			slog.Warn("invalid lud16 in profile", "lud16", lud16, "error", err)
			return card
		}
		card.LightningURI = template.URL(addr.URI())
		card.QRCodeDataURL = template.URL(generateQRCodeDataURL(addr.URI(), opts.QRSize))
		if lnurl, err := addr.LNURL(); err == nil {
			card.LNURL = lnurl
		}
	}

	return card
}

// Render writes the card as an HTML document
func (c *Card) Render(w io.Writer) error {
	tmpl, err := getCardTemplate()
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, c); err != nil {
		return fmt.Errorf("failed to render card: %w", err)
	}
	return nil
}

func getCardTemplate() (*template.Template, error) {
	cardTemplateOnce.Do(func() {
		cardTemplate, cardTemplateErr = template.New("card").Parse(templates.GetCardTemplate())
		if cardTemplateErr != nil {
			cardTemplateErr = fmt.Errorf("failed to compile card template: %w", cardTemplateErr)
		}
	})
	return cardTemplate, cardTemplateErr
}

// renderAbout converts markdown to sanitized HTML. goldmark already omits raw
// HTML; the policy also strips unsafe links and attributes.
func renderAbout(about string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(about), &buf); err != nil {
		slog.Warn("failed to render about markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(about))
	}
	return template.HTML(aboutPolicy.SanitizeBytes(buf.Bytes()))
}

// publicURL drops links that are not plain http(s) URLs on public hosts
func publicURL(raw string, ok bool) string {
	if !ok || raw == "" {
		return ""
	}
	safe, ok := util.PublicHTTPURL(raw)
	if !ok {
		slog.Warn("dropping unsafe profile URL", "url", raw)
		return ""
	}
	return safe
}

func generateQRCodeDataURL(content string, size int) string {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		slog.Error("failed to generate QR code", "error", err)
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
