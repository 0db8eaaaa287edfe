// Package quotecard draws shareable PNG cards for quotes.
package quotecard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/seekstruth-backend/internal/domain"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

const (
	Width  = 1020
	Height = 720
)

// palettes maps the user's primary color setting to background and accent colors.
var palettes = map[string][2]string{
	"blue":   {"#1e3a8a", "#93c5fd"},
	"green":  {"#14532d", "#86efac"},
	"purple": {"#4c1d95", "#c4b5fd"},
	"red":    {"#7f1d1d", "#fca5a5"},
	"orange": {"#7c2d12", "#fdba74"},
}

type Options struct {
	PrimaryColor string
	Footer       string
}

// Renderer is safe for concurrent use; font faces are shared behind mu.
type Renderer struct {
	log    *logger.Logger
	mu     sync.Mutex
	body   font.Face
	footer font.Face
}

// New loads fontPath, or the bundled Go Regular font when fontPath is empty.
func New(log *logger.Logger, fontPath string) (*Renderer, error) {
	raw := goregular.TTF
	if p := strings.TrimSpace(fontPath); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		raw = b
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Renderer{
		log:    log.With("service", "QuoteCardRenderer"),
		body:   face(parsed, 44),
		footer: face(parsed, 24),
	}, nil
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

// Render writes a Width x Height PNG card for q to w.
func (r *Renderer) Render(w io.Writer, q domain.Quote, opts Options) error {
	pal, ok := palettes[strings.ToLower(strings.TrimSpace(opts.PrimaryColor))]
	if !ok {
		pal = palettes["blue"]
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(Width, Height)

	grad := gg.NewLinearGradient(0, 0, Width, Height)
	bg, _ := parseHex(pal[0])
	grad.AddColorStop(0, bg)
	grad.AddColorStop(1, darken(bg, 0.55))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, Width, Height)
	dc.Fill()

	dc.SetHexColor(pal[1])
	dc.DrawRectangle(80, 90, 8, Height-220)
	dc.Fill()

	text := strings.TrimSpace(q.Text)
	if text == "" {
		text = "Daily inspiration"
	}
	dc.SetFontFace(r.body)
	dc.SetHexColor("#ffffff")
	dc.DrawStringWrapped("“"+text+"”", Width/2+20, Height/2-40, 0.5, 0.5, Width-260, 1.4, gg.AlignCenter)

	footer := strings.TrimSpace(opts.Footer)
	if author := strings.TrimSpace(q.Author); author != "" {
		if footer != "" {
			footer = author + "  ·  " + footer
		} else {
			footer = author
		}
	}
	if footer != "" {
		dc.SetFontFace(r.footer)
		dc.SetHexColor(pal[1])
		dc.DrawStringAnchored(footer, Width/2, Height-80, 0.5, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	r.log.Debug("Quote card rendered", "quote_id", q.ID, "color", opts.PrimaryColor)
	return nil
}
