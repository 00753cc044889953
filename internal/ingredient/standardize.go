package ingredient

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// MaxDisplayDenominator bounds the denominators used when rendering
// standardized amounts.
const MaxDisplayDenominator = 16

// stoplist holds common pantry staples excluded from recipe tags.
var stoplist = []string{
	"salt", "pepper", "flour", "sugar", "butter", "oil", "water", "milk", "egg", "eggs",
	"vanilla", "yeast", "baking soda", "baking powder", "cream", "parsley", "stock",
	"broth", "spices", "olive oil", "garlic", "panko", "onion", "green onions",
	"half and half", "carrots", "spinach",
}

// DisplayFraction renders an amount as a human-friendly fraction with the
// denominator limited to maxDenominator. Whole numbers render bare, improper
// fractions render as mixed numbers ("1 1/2"). Zero, negative, and
// unrepresentable amounts render as "1" so a quantity never displays as
// nothing.
func DisplayFraction(amount float64, maxDenominator int) string {
	if amount <= 0 {
		return "1"
	}
	r, ok := FromFloat(amount)
	if !ok {
		return "1"
	}
	r = r.LimitDenominator(int64(maxDenominator))
	if r.Num == 0 {
		// A small amount can round to zero under a tight bound.
		return "1"
	}

	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	if r.Num > r.Den {
		whole := r.Num / r.Den
		remainder := r.Num % r.Den
		if remainder == 0 {
			return fmt.Sprintf("%d", whole)
		}
		return fmt.Sprintf("%d %s", whole, NewRational(remainder, r.Den))
	}
	return r.String()
}

// Standardize rewrites an ingredient line as "amount unit name" with the
// amount in fraction display form, the unit lowercased, filler "of" and
// punctuation stripped from the name, and whitespace collapsed. Lines that
// do not parse cleanly are returned with only their whitespace collapsed,
// which keeps the function idempotent.
func Standardize(line string) string {
	p := Parse(line)
	if p.Fallback {
		return collapseSpaces(line)
	}

	unit := strings.ToLower(p.Unit)
	name := cleanName(p.Name)
	amount := DisplayFraction(p.Amount, MaxDisplayDenominator)

	return strings.TrimSpace(fmt.Sprintf("%s %s %s", amount, unit, name))
}

// GenerateTags derives a sorted, deduplicated tag list from a recipe's
// ingredient lines. Each line is standardized, reduced to its name portion,
// and lowercased; names containing any stoplisted staple are discarded
// entirely.
func GenerateTags(lines []string) []string {
	seen := make(map[string]struct{})
	for _, line := range lines {
		p := Parse(Standardize(line))

		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" || containsStopword(name) {
			continue
		}

		name = strings.TrimSpace(stripPunctuation(name))
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func containsStopword(name string) bool {
	for _, stop := range stoplist {
		if strings.Contains(name, stop) {
			return true
		}
	}
	return false
}

// cleanName strips the filler word "of", drops punctuation, and collapses
// whitespace.
func cleanName(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if strings.EqualFold(stripPunctuation(f), "of") {
			continue
		}
		f = stripPunctuation(f)
		if f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// stripPunctuation removes everything except letters, digits, underscores,
// and spaces.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == ' ' {
			return r
		}
		return -1
	}, s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
