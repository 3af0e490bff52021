package validation_test

import (
	"testing"

	"productsapi/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceRule() validation.Rule {
	return validation.Body("price").
		Numeric("invalid value").
		NotEmpty("price cannot be empty").
		Positive("invalid price").
		Rule()
}

func messages(errs []validation.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Msg)
	}
	return out
}

func TestPriceRule(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		expected []string
	}{
		{
			name:     "missing price fails every check",
			body:     map[string]any{},
			expected: []string{"invalid value", "price cannot be empty", "invalid price"},
		},
		{
			name:     "zero price only fails positivity",
			body:     map[string]any{"price": float64(0)},
			expected: []string{"invalid price"},
		},
		{
			name:     "negative price only fails positivity",
			body:     map[string]any{"price": float64(-10)},
			expected: []string{"invalid price"},
		},
		{
			name:     "text price fails numeric and positivity",
			body:     map[string]any{"price": "Hola"},
			expected: []string{"invalid value", "invalid price"},
		},
		{
			name:     "positive number passes",
			body:     map[string]any{"price": float64(50)},
			expected: []string{},
		},
		{
			name:     "numeric string passes",
			body:     map[string]any{"price": "19.99"},
			expected: []string{},
		},
		{
			name:     "bare fraction passes",
			body:     map[string]any{"price": ".5"},
			expected: []string{},
		},
		{
			name:     "signed string with leading zeros passes",
			body:     map[string]any{"price": "+007.25"},
			expected: []string{},
		},
		{
			name:     "trailing dot is not numeric",
			body:     map[string]any{"price": "5."},
			expected: []string{"invalid value"},
		},
		{
			name:     "exponent is not numeric",
			body:     map[string]any{"price": "1e3"},
			expected: []string{"invalid value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := priceRule()(validation.Input{Body: tt.body})
			assert.Equal(t, tt.expected, messages(errs))
		})
	}
}

func TestChain_AccumulatesAcrossRules(t *testing.T) {
	chain := validation.Chain{
		validation.Body("name").NotEmpty("product name cannot be empty").Rule(),
		priceRule(),
	}

	errs := chain.Run(validation.Input{Body: map[string]any{}})
	require.Len(t, errs, 4)
	assert.Equal(t, "name", errs[0].Path)
	for _, e := range errs[1:] {
		assert.Equal(t, "price", e.Path)
		assert.Equal(t, validation.LocationBody, e.Location)
		assert.Equal(t, "field", e.Type)
		assert.Nil(t, e.Value)
	}

	assert.Empty(t, chain.Run(validation.Input{Body: map[string]any{"name": "mouse", "price": float64(5)}}))
}

func TestParamIntRule(t *testing.T) {
	rule := validation.Param("id").Int("invalid id").Rule()

	for _, id := range []string{"1", "42", "2000", "-3", "+5", "007", "0"} {
		assert.Empty(t, rule(validation.Input{Params: map[string]string{"id": id}}), id)
	}

	for _, id := range []string{"not-valid-url", "1.5", "", "01x", "+", " 1"} {
		errs := rule(validation.Input{Params: map[string]string{"id": id}})
		require.Len(t, errs, 1, id)
		assert.Equal(t, "invalid id", errs[0].Msg)
		assert.Equal(t, validation.LocationParams, errs[0].Location)
		assert.Equal(t, id, errs[0].Value)
	}
}

func TestBooleanRule(t *testing.T) {
	rule := validation.Body("aviability").Boolean("invalid availability value").Rule()

	for _, v := range []any{true, false, "true", "false", "1", "0"} {
		assert.Empty(t, rule(validation.Input{Body: map[string]any{"aviability": v}}), v)
	}

	for _, v := range []any{nil, "yes", "t", "T", "TRUE", "True", "F", float64(3), map[string]any{}} {
		errs := rule(validation.Input{Body: map[string]any{"aviability": v}})
		assert.Len(t, errs, 1, v)
	}

	assert.Len(t, rule(validation.Input{Body: map[string]any{}}), 1)
}

func TestTextAndParsers(t *testing.T) {
	assert.Equal(t, "", validation.Text(nil))
	assert.Equal(t, "50", validation.Text(float64(50)))
	assert.Equal(t, "0.5", validation.Text(0.5))
	assert.Equal(t, "true", validation.Text(true))
	assert.Equal(t, `[1,2]`, validation.Text([]any{float64(1), float64(2)}))

	f, err := validation.Float("12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, f)

	f, err = validation.Float(".5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	b, err := validation.Bool("0")
	require.NoError(t, err)
	assert.False(t, b)
}
