package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"

	"github.com/gybn/mentorat/internal/view"
)

const dateLayout = "2006-01-02"

// queryID reads an entity id from the ?id= parameter.
func queryID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func formUint(r *http.Request, name string) uint {
	v, err := strconv.ParseUint(strings.TrimSpace(r.FormValue(name)), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

func formInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if err != nil {
		return 0
	}
	return v
}

func formDate(r *http.Request, name string) (time.Time, bool) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func notFound(w http.ResponseWriter) {
	http.Error(w, "introuvable", http.StatusNotFound)
}

func serverError(w http.ResponseWriter, err error) {
	http.Error(w, "erreur interne: "+err.Error(), http.StatusInternalServerError)
}

// renderOr500 keeps template failures from passing silently.
func renderOr500(w http.ResponseWriter, name string, data map[string]any) {
	if err := view.Render(w, name, data); err != nil {
		serverError(w, err)
	}
}

// isNotFound distinguishes a missing row from a store failure.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// slugify lowercases, strips accents common in French names and replaces
// everything else with hyphens, for Content-Disposition filenames.
func slugify(s string) string {
	repl := map[rune]rune{
		'à': 'a', 'â': 'a', 'ä': 'a', 'ç': 'c', 'é': 'e', 'è': 'e',
		'ê': 'e', 'ë': 'e', 'î': 'i', 'ï': 'i', 'ô': 'o', 'ö': 'o',
		'ù': 'u', 'û': 'u', 'ü': 'u',
	}
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if mapped, ok := repl[r]; ok {
			r = mapped
		}
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
