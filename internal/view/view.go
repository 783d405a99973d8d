// Package view renders the HTML pages: a shared layout wrapping one page
// template, parsed once and cached (reparsed per request when DEV=1).
package view

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

func detectBase() {
	// Works whether the binary runs from the repo root or from cmd/server.
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// messages maps violation codes to the French text shown next to the field.
var messages = map[string]string{
	"required":                "Ce champ est obligatoire.",
	"invalid":                 "Valeur invalide.",
	"duplicate_enrollment":    "Cet élève est déjà inscrit pour cette branche et cette année.",
	"inconsistent_discipline": "La branche du contrat doit correspondre à celle du demandeur et du mentor.",
	"inconsistent_year":       "L'année du contrat doit correspondre à celle du demandeur et du mentor.",
	"not_found":               "Référence introuvable.",
	"parent_cycle":            "La chaîne de contrats parents boucle sur elle-même.",
	"end_before_begin":        "La date de fin précède la date de début.",
	"bad_credentials":         "Email ou mot de passe incorrect.",
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
		"msg": func(code string) string {
			if m, ok := messages[code]; ok {
				return m
			}
			return code
		},
		"frdate": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("02.01.2006")
			case *time.Time:
				if v != nil {
					return v.Format("02.01.2006")
				}
			}
			return ""
		},
		// isodate feeds <input type="date"> values.
		"isodate": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("2006-01-02")
			case *time.Time:
				if v != nil {
					return v.Format("2006-01-02")
				}
			}
			return ""
		},
	}
}

// Render executes the named page template inside layout.html.
func Render(w http.ResponseWriter, name string, data map[string]any) error {
	once.Do(detectBase)
	if data == nil {
		data = map[string]any{}
	}
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			return t.Execute(w, data)
		}
	}
	t, err := template.New("layout.html").
		Funcs(Funcs()).
		ParseFiles(filepath.Join(baseDir, "layout.html"), filepath.Join(baseDir, name))
	if err != nil {
		return err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t.Execute(w, data)
}
