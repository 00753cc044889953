package recipe

import (
	"math/rand"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fixer repairs corpus entries fetched with placeholder timings or raw HTML
// instructions. Randomized repairs come from a seeded source so reruns over
// the same corpus are reproducible.
type Fixer struct {
	rng *rand.Rand
}

// NewFixer creates a Fixer seeded with seed.
func NewFixer(seed int64) *Fixer {
	return &Fixer{rng: rand.New(rand.NewSource(seed))}
}

var (
	prepChoices = []int{5, 10, 15}
	cookChoices = []int{15, 20, 25, 30, 40, 45}
)

// Fix cleans every recipe in place and returns the number of repairs
// applied. Prep and cook times still at their fetch-era defaults are
// replaced with plausible values, TotalTime is recomputed, and instruction
// steps are re-split from any remaining markup.
func (f *Fixer) Fix(recipes []Recipe) int {
	fixed := 0
	for i := range recipes {
		r := &recipes[i]

		if r.PrepTime == 0 || r.PrepTime == 10 {
			r.PrepTime = prepChoices[f.rng.Intn(len(prepChoices))]
			fixed++
		}
		if r.CookTime == 0 || r.CookTime == 20 {
			r.CookTime = cookChoices[f.rng.Intn(len(cookChoices))]
			fixed++
		}
		r.TotalTime = r.PrepTime + r.CookTime

		cleaned := make([]string, 0, len(r.Instructions))
		for _, step := range r.Instructions {
			cleaned = append(cleaned, CleanInstructions(step)...)
		}
		if len(cleaned) != len(r.Instructions) {
			fixed++
		}
		r.Instructions = cleaned
	}
	return fixed
}

// CleanInstructions turns one raw instruction blob, possibly carrying
// `<ol><li>` markup from the source API, into plain sentence steps. Input
// that fails to parse as HTML degrades to sentence splitting of the raw
// text, never to an error.
func CleanInstructions(raw string) []string {
	text := raw
	if strings.Contains(raw, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			items := doc.Find("li")
			if items.Length() > 0 {
				steps := make([]string, 0, items.Length())
				items.Each(func(_ int, s *goquery.Selection) {
					if step := normalizeStep(s.Text()); step != "" {
						steps = append(steps, step)
					}
				})
				return steps
			}
			text = doc.Text()
		}
	}

	var steps []string
	for _, sentence := range strings.Split(text, ".") {
		if step := normalizeStep(sentence); step != "" {
			steps = append(steps, step)
		}
	}
	return steps
}

// normalizeStep trims a step and ensures it ends with a period. Fragments of
// two characters or fewer are noise from splitting and are dropped.
func normalizeStep(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if len(s) <= 2 {
		return ""
	}
	return s + "."
}
