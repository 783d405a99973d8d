package pdf

import "time"

// ContractDoc is everything the contract form prints. Created pins the PDF
// creation date so unchanged contracts render byte-identical documents.
type ContractDoc struct {
	Discipline string
	Mentor     Person
	EDA        Person
	Created    time.Time
}

const dots = "..........................................."

// Contract renders the contract form: left half the signature form, right
// half the six-row follow-up grid filled in after each session.
func (r *Renderer) Contract(doc ContractDoc) ([]byte, error) {
	c, err := r.newCanvas(doc.Created)
	if err != nil {
		return nil, err
	}

	// Left half: the contract proper. Vertical origin sits 2.5cm down.
	const head = 2.5
	const left = 1.0
	x := func(v float64) float64 { return v + left }
	y := func(v float64) float64 { return v + head }
	lineEnd := halfW - 1

	c.setFont("B", 18)
	c.logo(r.assets.LogoPath, x(0), y(0))
	c.ctext(pageW/4, y(1), "Contrat de Mentorat")
	c.setFont("", 9)
	c.ctext(pageW/4, y(1.5), "(A conserver en parfait état)")

	c.line(x(0), y(2), lineEnd, y(2))

	c.setFont("B", 12)
	c.text(x(0), y(2.5), "Branche :")
	c.setFont("", 11)
	c.text(x(4.5), y(2.5), doc.Discipline)

	c.line(x(0), y(3), lineEnd, y(3))

	c.setFont("B", 12)
	c.text(x(0), y(3.5), "Mentor : ")
	c.setFont("", 11)
	c.text(x(4.5), y(3.5), doc.Mentor.Name+" "+doc.Mentor.Vorname+" ("+doc.Mentor.Classe+")")
	c.setFont("", 10)
	c.text(x(0.5), y(4.5), "Port. : "+doc.Mentor.Portable)
	c.text(x(4.5), y(4.5), "Email : "+doc.Mentor.Email)

	c.line(x(0), y(5), lineEnd, y(5))

	c.setFont("B", 12)
	c.text(x(0), y(5.5), "Demandeur d'aide :")
	c.setFont("", 11)
	c.text(x(4.5), y(5.5), doc.EDA.Name+" "+doc.EDA.Vorname+" ("+doc.EDA.Classe+")")
	c.setFont("", 10)
	c.text(x(0.5), y(6.5), "Port. : "+doc.EDA.Portable)
	c.text(x(4.5), y(6.5), "Email : "+doc.EDA.Email)

	c.line(x(0), y(7), lineEnd, y(7))

	c.text(x(0), y(8), "Date et lieu : Cheseaux-Noréaz, le ")
	c.text(x(6), y(8), dots)
	c.text(x(0), y(9), "Signature du mentor")
	c.text(x(6), y(9), dots)
	c.text(x(0), y(10), "Signature du demandeur")
	c.text(x(6), y(10), dots)

	c.line(x(0), y(10.5), lineEnd, y(10.5))

	c.setFont("B", 12)
	c.text(x(0), y(11.5), "Signatures de la responsable du mentorat (S. Amy) :")
	c.setFont("", 11)
	c.text(x(0), y(12.5), "Avant la première séance")
	c.text(x(6), y(12.5), dots)
	c.text(x(0), y(13.5), "Après la dernière séance")
	c.text(x(6), y(13.5), dots)

	c.line(x(0), y(14), lineEnd, y(14))
	c.setFont("B", 11)
	c.text(x(0), y(15), "A remettre au secrétariat en fin de contrat, avec les deux signatures")
	c.text(x(0), y(15.5), "de la responsable, pour l'obtention de l'aide à la formation.")

	c.separator()

	// Right half: the follow-up grid, shifted up half a centimeter.
	gy := func(v float64) float64 { return v + 2 }
	gl := halfW + 1
	gr := pageW - 1

	c.setFont("B", 18)
	c.ctext(3*pageW/4, gy(0), "Fiche de suivi")
	c.setFont("", 11)
	c.ctext(3*pageW/4, gy(1), "A remplir à l'issue de chaque séance.")

	rows := []float64{1.5, 2.5, 5, 7.5, 10, 12.5, 15, 17.5}
	for _, ry := range rows {
		c.line(gl, gy(ry), gr, gy(ry))
	}
	for _, cx := range []float64{gl, halfW + 2.5, halfW + 11, gr} {
		c.line(cx, gy(1.5), cx, gy(17.5))
	}

	c.setFont("", 11)
	c.text(halfW+x(0.1), gy(2), "Dates")
	c.text(halfW+x(1.6), gy(2), "Sujets abordés")
	c.text(halfW+x(10.1), gy(2), "Signatures")
	for i, ry := range []float64{3, 5.5, 8, 10.5, 13, 15.5} {
		c.text(halfW+x(0.1), gy(ry), numbered(i+1))
	}

	return c.output()
}

func numbered(n int) string {
	return string(rune('0'+n)) + "."
}
