// internal/pipeline/intent/extract.go
package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	yearPattern    = regexp.MustCompile(`\b(20[2-3][0-9])\b`)
	quarterPattern = regexp.MustCompile(`\bq([1-4])\b`)
	monthPattern   = regexp.MustCompile(`\b(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)\b`)
)

// ExtractYears returns the distinct 4-digit years (2020-2039) mentioned in
// the question, in ascending order.
func ExtractYears(question string) []int {
	seen := make(map[int]bool)
	var years []int
	for _, match := range yearPattern.FindAllString(Normalize(question), -1) {
		year, err := strconv.Atoi(match)
		if err != nil || seen[year] {
			continue
		}
		seen[year] = true
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// ExtractMonths returns the distinct months named in the question, in the
// order they appear. Month names only count as whole words; "mayo" inside
// "mayores" is not a month.
func ExtractMonths(question string) []int {
	seen := make(map[int]bool)
	var months []int
	for _, name := range monthPattern.FindAllString(Normalize(question), -1) {
		month := monthNames[name]
		if seen[month] {
			continue
		}
		seen[month] = true
		months = append(months, month)
	}
	return months
}

// ExtractQuarter returns an explicitly numbered quarter (Q1-Q4 or
// "primer/segundo/tercer/cuarto trimestre") if the question names one.
func ExtractQuarter(question string) (int, bool) {
	normalized := Normalize(question)

	if m := quarterPattern.FindStringSubmatch(normalized); m != nil {
		q, _ := strconv.Atoi(m[1])
		return q, true
	}
	for phrase, q := range ordinalQuarters {
		if strings.Contains(normalized, phrase) {
			return q, true
		}
	}
	return 0, false
}

// HasQuarterKeyword reports a generic quarter mention without a number.
func HasQuarterKeyword(question string) bool {
	return strings.Contains(Normalize(question), "trimestre")
}

// HasSemesterKeyword reports a semester mention.
func HasSemesterKeyword(question string) bool {
	return strings.Contains(Normalize(question), "semestre")
}

// ExtractAreas returns the canonical area names mentioned in the question,
// resolving Spanish synonyms ("legal" -> "Jurídica"), in order of
// appearance.
func ExtractAreas(question string) []string {
	normalized := Normalize(question)
	seen := make(map[string]bool)

	type hit struct {
		pos  int
		area string
	}
	var hits []hit
	for synonym, canonical := range areaSynonyms {
		if pos := strings.Index(normalized, synonym); pos >= 0 && !seen[canonical] {
			seen[canonical] = true
			hits = append(hits, hit{pos: pos, area: canonical})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	areas := make([]string, 0, len(hits))
	for _, h := range hits {
		areas = append(areas, h.area)
	}
	return areas
}

// ExtractPartner returns the first known partner named in the question.
func ExtractPartner(question string) (string, bool) {
	normalized := Normalize(question)
	best := ""
	bestPos := -1
	for _, partner := range KnownPartners {
		if pos := strings.Index(normalized, partner); pos >= 0 {
			if bestPos == -1 || pos < bestPos {
				best = partner
				bestPos = pos
			}
		}
	}
	if bestPos == -1 {
		return "", false
	}
	return strings.ToUpper(best[:1]) + best[1:], true
}

// HasExplicitPeriod reports whether the question pins down a time period
// through a year token, a month name, a quarter marker, or a relative
// period phrase.
func HasExplicitPeriod(question string) bool {
	if len(ExtractYears(question)) > 0 || len(ExtractMonths(question)) > 0 {
		return true
	}
	if _, ok := ExtractQuarter(question); ok {
		return true
	}
	return ContainsAny(Normalize(question), PeriodKeywords)
}
