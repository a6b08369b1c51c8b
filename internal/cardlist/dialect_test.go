package cardlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected Dialect
	}{
		{
			name:     "bare name falls back to pipe",
			content:  "Lightning Bolt\n",
			expected: DialectPipe,
		},
		{
			name:     "pipe delimited",
			content:  "Tarmogoyf|FUT|153\n",
			expected: DialectPipe,
		},
		{
			name:     "deck export text",
			content:  "1 Ragavan, Nimble Pilferer (MH2) 138\n",
			expected: DialectDeckText,
		},
		{
			name:     "deck export with x suffix",
			content:  "4x Lightning Bolt (2XM)\n",
			expected: DialectDeckText,
		},
		{
			name:     "generic CSV by quantity header",
			content:  "Quantity,Name,SetCode,CollectorNumber,Finish\n4,Lightning Bolt,2XM,129,\n",
			expected: DialectGenericCSV,
		},
		{
			name:     "archidekt CSV by edition header",
			content:  "Count,Card Name,Edition,Collector Number,Foil\n1,Sol Ring,C21,263,No\n",
			expected: DialectNamedCSV,
		},
		{
			name:     "moxfield CSV by tradelist count header",
			content:  "Tradelist Count,Name,Edition,Collector Number,Foil\n1,Sol Ring,C21,263,\n",
			expected: DialectNamedCSV,
		},
		{
			name:     "comma and edition inside a card name stays pipe",
			content:  "Urza, Collector's Edition|CED\n",
			expected: DialectPipe,
		},
		{
			name:     "edition header alone is not a vendor CSV",
			content:  "Edition,Something\nfoo,bar\n",
			expected: DialectPipe,
		},
		{
			name:     "comments and blanks skipped before probing",
			content:  "# my deck\n\n2 Counterspell (MH2) 267\n",
			expected: DialectDeckText,
		},
		{
			name:     "empty input defaults to pipe",
			content:  "\n\n# only comments\n",
			expected: DialectPipe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectDialect([]byte(tt.content)))
		})
	}
}
