package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		want     Parsed
	}{
		{
			name:  "plain integer amount",
			input: "2 cups sugar",
			want:  Parsed{Amount: 2, Unit: "cups", Name: "sugar"},
		},
		{
			name:  "decimal amount",
			input: "0.5 cup milk",
			want:  Parsed{Amount: 0.5, Unit: "cup", Name: "milk"},
		},
		{
			name:  "simple fraction amount",
			input: "1/2 tsp vanilla extract",
			want:  Parsed{Amount: 0.5, Unit: "tsp", Name: "vanilla extract"},
		},
		{
			name:  "multi word name stays intact",
			input: "3 tbsp extra virgin olive oil",
			want:  Parsed{Amount: 3, Unit: "tbsp", Name: "extra virgin olive oil"},
		},
		{
			name:  "single token falls back with whole line as name",
			input: "sugar",
			want:  Parsed{Amount: DefaultAmount, Unit: "", Name: "sugar", Fallback: true},
		},
		{
			name:  "two tokens fall back with whole line as name",
			input: "some sugar",
			want:  Parsed{Amount: DefaultAmount, Unit: "", Name: "some sugar", Fallback: true},
		},
		{
			name:  "unparseable amount falls back to default",
			input: "a pinch salt",
			want:  Parsed{Amount: DefaultAmount, Unit: "pinch", Name: "salt", Fallback: true},
		},
		{
			name:  "negative amount falls back to default",
			input: "-2 cups sugar",
			want:  Parsed{Amount: DefaultAmount, Unit: "cups", Name: "sugar", Fallback: true},
		},
		{
			name:  "zero denominator falls back to default",
			input: "1/0 cup flour",
			want:  Parsed{Amount: DefaultAmount, Unit: "cup", Name: "flour", Fallback: true},
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  2 cups sugar  ",
			want:  Parsed{Amount: 2, Unit: "cups", Name: "sugar"},
		},
		{
			name:  "empty line falls back with empty name",
			input: "",
			want:  Parsed{Amount: DefaultAmount, Unit: "", Name: "", Fallback: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tc.input)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNeverReturnsZeroAmount(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "sugar", "x y", "abc def ghi", "0/0 cup flour"}
	for _, in := range inputs {
		got := Parse(in)
		assert.Positive(t, got.Amount, "input %q", in)
	}
}
