// Package pdf renders the two printable documents: the mentoring contract
// form and the meeting convocation. Both are a single landscape A4 sheet
// split down the middle into two logical half-pages, drawn with absolute
// coordinates in centimeters.
//
// Rendering is deterministic: the same entity fields produce identical
// bytes. The only current-date stamp (on the convocation) is passed in by
// the caller, never read from the clock here.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/phpdave11/gofpdf"
)

// Page geometry, landscape A4 in cm.
const (
	pageW = 29.7
	pageH = 21.0
	halfW = pageW / 2
)

// Logo box, sized for the school letterhead image.
const (
	logoW = 3.8
	logoH = 1.9
)

// Assets points at the optional TTF font and letterhead logo. A configured
// but unreadable asset is a fatal render error; with FontPath empty the
// built-in Helvetica metrics are used instead.
type Assets struct {
	FontPath string
	LogoPath string
}

// Person carries the identity/contact fields printed for one student.
type Person struct {
	Name     string
	Vorname  string
	Classe   string
	Portable string
	Email    string
}

// Renderer produces the documents. Safe for concurrent use: each render
// builds its own canvas.
type Renderer struct {
	assets Assets
}

func New(assets Assets) *Renderer {
	return &Renderer{assets: assets}
}

// canvas wraps gofpdf with the cm-coordinate helpers the layouts use.
type canvas struct {
	f      *gofpdf.Fpdf
	tr     func(string) string
	family string
}

func (r *Renderer) newCanvas(created time.Time) (*canvas, error) {
	f := gofpdf.New("L", "cm", "A4", "")
	f.SetAutoPageBreak(false, 0)
	f.SetCreationDate(created.UTC())

	c := &canvas{f: f}
	if r.assets.FontPath != "" {
		if _, err := os.Stat(r.assets.FontPath); err != nil {
			return nil, fmt.Errorf("police introuvable: %w", err)
		}
		// One file for both styles: the bold variant is synthesized from
		// the same metrics when no dedicated bold file is shipped.
		f.AddUTF8Font("Arial", "", r.assets.FontPath)
		f.AddUTF8Font("Arial", "B", r.assets.FontPath)
		if f.Err() {
			return nil, fmt.Errorf("chargement de la police: %w", f.Error())
		}
		c.family = "Arial"
		c.tr = func(s string) string { return s }
	} else {
		c.family = "Helvetica"
		c.tr = f.UnicodeTranslatorFromDescriptor("")
	}
	if r.assets.LogoPath != "" {
		if _, err := os.Stat(r.assets.LogoPath); err != nil {
			return nil, fmt.Errorf("logo introuvable: %w", err)
		}
	}
	f.AddPage()
	return c, nil
}

func (c *canvas) setFont(style string, size float64) {
	c.f.SetFont(c.family, style, size)
}

func (c *canvas) text(x, y float64, s string) {
	c.f.Text(x, y, c.tr(s))
}

// ctext centers the string horizontally on x.
func (c *canvas) ctext(x, y float64, s string) {
	w := c.f.GetStringWidth(c.tr(s))
	c.f.Text(x-w/2, y, c.tr(s))
}

func (c *canvas) line(x1, y1, x2, y2 float64) {
	c.f.Line(x1, y1, x2, y2)
}

// logo draws the letterhead image with its bottom-left corner at (x, y),
// matching the original anchor.
func (c *canvas) logo(path string, x, y float64) {
	if path == "" {
		return
	}
	c.f.ImageOptions(path, x, y-logoH, logoW, logoH, false, gofpdf.ImageOptions{}, 0, "")
}

// separator splits the sheet into its two half-pages.
func (c *canvas) separator() {
	c.line(halfW, 0.5, halfW, pageH-0.5)
}

func (c *canvas) output() ([]byte, error) {
	if c.f.Err() {
		return nil, fmt.Errorf("rendu pdf: %w", c.f.Error())
	}
	var buf bytes.Buffer
	if err := c.f.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendu pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var frenchDays = map[time.Weekday]string{
	time.Monday:    "lundi",
	time.Tuesday:   "mardi",
	time.Wednesday: "mercredi",
	time.Thursday:  "jeudi",
	time.Friday:    "vendredi",
	time.Saturday:  "samedi",
	time.Sunday:    "dimanche",
}

// frenchDate renders "mardi 03.02.2026" the way the convocations spell out
// appointment dates.
func frenchDate(t time.Time) string {
	return fmt.Sprintf("%s %s", frenchDays[t.Weekday()], t.Format("02.01.2006"))
}
