package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := map[string]struct {
		amount string
		want   string
	}{
		"whole number":     {amount: "200", want: "S/200.00"},
		"one decimal":      {amount: "12.5", want: "S/12.50"},
		"rounds half up":   {amount: "233.9982", want: "S/234.00"},
		"zero":             {amount: "0", want: "S/0.00"},
		"keeps two places": {amount: "1299.99", want: "S/1299.99"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatterCustomPrefix(t *testing.T) {
	f := NewFormatter("$")
	assert.Equal(t, "$3.10", f.Format(decimal.RequireFromString("3.1")))

	f = NewFormatter("")
	assert.Equal(t, DefaultPrefix, f.Prefix)
}
