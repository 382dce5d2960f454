// internal/pipeline/intent/keywords.go
package intent

import "strings"

// Keyword lists are stored accent-free and lowercase; Normalize folds the
// question the same way before matching. These substring heuristics are
// approximate by design and will misclassify some phrasings; the validator
// treats its findings as advisory warnings for that reason.

// ReportKeywords mark a question as asking for an executive report.
var ReportKeywords = []string{"informe", "resumen", "ejecutivo", "reporte"}

// SingleYearKeywords select among the single-year report templates.
var SingleYearKeywords = []string{"rentabilidad", "resumen", "respecto al anterior", "mes a mes", "por area"}

// ComparisonKeywords mark a question as comparing two things.
var ComparisonKeywords = []string{"compar", "versus", " vs ", "diferencia", "contra"}

// TemporalContextKeywords mark questions whose answer depends on where we
// are in the fiscal year.
var TemporalContextKeywords = []string{
	"proyeccion", "proyectar", "tendencia", "fin de ano", "cierre de ano",
	"historico", "ultimos", "estimacion", "ritmo actual",
}

// ProjectionKeywords is the subset that implies a forward projection.
var ProjectionKeywords = []string{"proyeccion", "proyectar", "fin de ano", "cierre de ano", "estimacion"}

// RankingKeywords imply a plural ranking answer.
var RankingKeywords = []string{"mejores", "peores", "top ", "ranking", "principales", "mayores"}

// SuperlativeKeywords explicitly ask for a single best/worst item, which
// legitimizes a LIMIT 1.
var SuperlativeKeywords = []string{"cual es el mejor", "cual es la mejor", "cual fue el mejor", "cual fue la mejor", "el mas", "la mas", "el menos", "la menos"}

// PeriodKeywords mark an explicit temporal scope in the question.
var PeriodKeywords = []string{
	"hoy", "ayer", "este mes", "mes pasado", "este ano", "ano pasado",
	"este trimestre", "trimestre", "semestre", "esta semana", "actual",
}

// KnownPartners are the firm's partners, matched as plain substrings.
var KnownPartners = []string{"bruno", "mercedes", "valentina", "federico", "cecilia"}

// CanonicalAreas are the firm's practice areas as stored in the database.
var CanonicalAreas = []string{"Jurídica", "Contable", "Notarial", "Consultoría"}

// areaSynonyms normalizes colloquial area names to canonical ones.
var areaSynonyms = map[string]string{
	"juridica":     "Jurídica",
	"legal":        "Jurídica",
	"legales":      "Jurídica",
	"abogados":     "Jurídica",
	"contable":     "Contable",
	"contabilidad": "Contable",
	"impuestos":    "Contable",
	"notarial":     "Notarial",
	"escribania":   "Notarial",
	"consultoria":  "Consultoría",
	"consulting":   "Consultoría",
}

// monthNames maps Spanish month names to month numbers.
var monthNames = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4,
	"mayo": 5, "junio": 6, "julio": 7, "agosto": 8,
	"septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
}

// ordinalQuarters maps Spanish quarter phrases to quarter numbers.
var ordinalQuarters = map[string]int{
	"primer trimestre":  1,
	"segundo trimestre": 2,
	"tercer trimestre":  3,
	"cuarto trimestre":  4,
}

// Normalize lowercases and strips Spanish diacritics so keyword matching is
// accent-insensitive ("proyección" and "proyeccion" match the same entry).
func Normalize(s string) string {
	s = strings.ToLower(s)
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	)
	return replacer.Replace(s)
}

// ContainsAny reports whether the normalized question contains any keyword.
func ContainsAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
