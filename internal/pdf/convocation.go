package pdf

import (
	"strings"
	"time"
)

// ConvocationDoc is everything a convocation prints. Each recipient (the
// EDA and the mentor) gets a half-page notice with their own name and the
// shared date/time/place/message.
type ConvocationDoc struct {
	EDA     Person
	Mentor  Person
	Date    time.Time
	Time    string // "HH:MM"
	Place   string
	Message string
	Created time.Time
}

// Convocation renders the two per-recipient notices side by side. stamp is
// the letter date printed in the header ("Cheseaux-Noréaz, le ..."), the
// one field sourced from the current day by the caller.
func (r *Renderer) Convocation(doc ConvocationDoc, stamp time.Time) ([]byte, error) {
	c, err := r.newCanvas(doc.Created)
	if err != nil {
		return nil, err
	}

	c.convocationHalf(r.assets.LogoPath, doc, doc.EDA, stamp, 1)
	c.separator()
	c.convocationHalf(r.assets.LogoPath, doc, doc.Mentor, stamp, halfW+1)

	return c.output()
}

func (c *canvas) convocationHalf(logoPath string, doc ConvocationDoc, dest Person, stamp time.Time, left float64) {
	const head = 2.5
	x := func(v float64) float64 { return v + left }
	y := func(v float64) float64 { return v + head }

	c.setFont("B", 18)
	c.logo(logoPath, x(0), y(0))

	c.setFont("", 10)
	c.text(x(7), y(0), "Cheseaux-Noréaz, le "+stamp.Format("02.01.2006"))

	c.setFont("B", 18)
	c.ctext(x(6.5), y(1.5), "Convocation")

	c.setFont("", 18)
	c.text(x(0), y(3), dest.Vorname+" "+dest.Name+" ("+dest.Classe+")")

	c.setFont("", 14)
	c.text(x(0), y(5), "Concerne : Contrat de mentorat")

	c.text(x(0), y(7), "Merci de vous présenter "+strings.ToLower(doc.Place))
	c.text(x(5.45), y(8), "le "+frenchDate(doc.Date)+" à "+doc.Time)

	if doc.Message != "" {
		c.text(x(0), y(10), doc.Message)
	}

	c.ctext(x(8), y(13), "Sandrine Amy")
	c.ctext(x(8), y(14), "Responsable du mentorat")
}
