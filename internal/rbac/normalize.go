package rbac

import "strings"

// Historical clients sent permission names under more than one spelling.
// Lookups must accept every known variant before concluding "not found",
// while new rows are always written under the canonical Portuguese name.

var prefixSynonyms = map[string]string{
	"process:":   "processo:",
	"reports:":   "relatorios:",
	"employees:": "funcionarios:",
	"users:":     "usuarios:",
}

var suffixSynonyms = map[string]string{
	":view":   ":ver",
	":create": ":criar",
	":edit":   ":editar",
	":delete": ":remover",
	":import": ":importar",
}

// suffixGroups lists Portuguese suffixes that are interchangeable at lookup
// time but remain distinct catalog entries.
var suffixGroups = [][]string{
	{":ver", ":ver_todos"},
	{":editar", ":finalizar"},
}

// Normalize rewrites a permission name to its canonical spelling.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for prefix, canonical := range prefixSynonyms {
		if strings.HasPrefix(name, prefix) {
			name = canonical + strings.TrimPrefix(name, prefix)
			break
		}
	}
	for suffix, canonical := range suffixSynonyms {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix) + canonical
			break
		}
	}
	return name
}

// Candidates returns the canonical name followed by its lookup synonyms.
func Candidates(name string) []string {
	canonical := Normalize(name)
	candidates := []string{canonical}
	for _, group := range suffixGroups {
		for _, suffix := range group {
			if !strings.HasSuffix(canonical, suffix) {
				continue
			}
			base := strings.TrimSuffix(canonical, suffix)
			for _, alt := range group {
				if alt == suffix {
					continue
				}
				candidates = append(candidates, base+alt)
			}
		}
	}
	return candidates
}
