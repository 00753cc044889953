package ingredient

import (
	"strconv"
	"strings"
)

// DefaultAmount is used whenever an amount is missing or unparseable. It is
// deliberately non-zero so a malformed line never vanishes from a shopping
// list after quantity accumulation.
const DefaultAmount = 1.0

// Parsed is the structured form of a free-text ingredient line.
type Parsed struct {
	Amount float64
	Unit   string
	Name   string

	// Fallback reports that the line did not have the expected
	// "amount unit name" shape and defaults were substituted. Parsing
	// never fails outright; callers that care can inspect this.
	Fallback bool
}

// Parse splits an ingredient line into an amount, a unit, and the remaining
// free-text name. Lines with fewer than three segments produce a fallback
// with the whole line as the name. Amounts may be integers, decimals, or
// simple fractions like "1/2"; anything else falls back to DefaultAmount.
func Parse(line string) Parsed {
	trimmed := strings.TrimSpace(line)
	parts := strings.SplitN(trimmed, " ", 3)
	if len(parts) < 3 {
		return Parsed{Amount: DefaultAmount, Unit: "", Name: trimmed, Fallback: true}
	}

	unit := strings.TrimSpace(parts[1])
	name := strings.TrimSpace(parts[2])

	amount, ok := parseAmount(parts[0])
	if !ok {
		return Parsed{Amount: DefaultAmount, Unit: unit, Name: name, Fallback: true}
	}
	return Parsed{Amount: amount, Unit: unit, Name: name}
}

// parseAmount interprets an amount token as a non-negative number. Fractions
// are evaluated exactly before conversion.
func parseAmount(tok string) (float64, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, false
	}

	if num, den, found := strings.Cut(tok, "/"); found {
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseInt(den, 10, 64)
		if err != nil || d == 0 {
			return 0, false
		}
		v := NewRational(n, d).Float()
		if v < 0 {
			return 0, false
		}
		return v, true
	}

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
