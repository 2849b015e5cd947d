package groups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EmptyBecomesDefault(t *testing.T) {
	for _, raw := range []GroupSet{nil, {}} {
		set := Normalize(raw)

		require.Len(t, set, 1)
		assert.Equal(t, DefaultGroupName, set[0].Name)
		assert.True(t, set[0].IsDefault)
		assert.Equal(t, DefaultTickers(), set[0].Tickers)
	}
}

func TestNormalize_AppendsMissingDefault(t *testing.T) {
	raw := GroupSet{{Name: "Tech", Tickers: []string{"AAPL", "MSFT"}}}

	set := Normalize(raw)

	require.Len(t, set, 2)
	assert.Equal(t, "Tech", set[0].Name)
	assert.False(t, set[0].IsDefault)
	assert.Equal(t, DefaultGroup(), set[1])
}

func TestNormalize_RepairsIncompleteDefault(t *testing.T) {
	raw := GroupSet{{Name: DefaultGroupName, Tickers: []string{"GE", "AAPL"}, IsDefault: true}}

	set := Normalize(raw)

	require.Len(t, set, 1)
	expected := append(DefaultTickers(), "AAPL")
	assert.Equal(t, expected, set[0].Tickers)
}

func TestNormalize_CompleteDefaultKeepsOrderAndExtras(t *testing.T) {
	tickers := append([]string{"AAPL"}, DefaultTickers()...)
	raw := GroupSet{{Name: DefaultGroupName, Tickers: tickers, IsDefault: true}}

	set := Normalize(raw)

	assert.Equal(t, tickers, set[0].Tickers)
}

func TestNormalize_DedupesTickers(t *testing.T) {
	raw := GroupSet{
		DefaultGroup(),
		{Name: "Tech", Tickers: []string{"AAPL", "MSFT", "AAPL"}},
	}

	set := Normalize(raw)

	assert.Equal(t, []string{"AAPL", "MSFT"}, set[1].Tickers)
}

func TestNormalize_KeepsOnlyFirstDefaultFlag(t *testing.T) {
	raw := GroupSet{
		DefaultGroup(),
		{Name: "Other", Tickers: []string{"X"}, IsDefault: true},
	}

	set := Normalize(raw)

	require.Len(t, set, 2)
	assert.True(t, set[0].IsDefault)
	assert.False(t, set[1].IsDefault)
	assert.Equal(t, 0, set.DefaultIndex())
}

func TestNormalize_IsIdempotentAndDoesNotMutateInput(t *testing.T) {
	raw := GroupSet{
		{Name: "Tech", Tickers: []string{"AAPL", "AAPL"}},
		{Name: DefaultGroupName, Tickers: []string{"GE"}, IsDefault: true},
	}

	once := Normalize(raw)
	twice := Normalize(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"AAPL", "AAPL"}, raw[0].Tickers)
	assert.Equal(t, []string{"GE"}, raw[1].Tickers)
}

func TestGroupSet_CloneIsDeep(t *testing.T) {
	set := GroupSet{{Name: "Tech", Tickers: []string{"AAPL"}}}

	clone := set.Clone()
	clone[0].Tickers[0] = "MSFT"
	clone[0].Name = "Changed"

	assert.Equal(t, "AAPL", set[0].Tickers[0])
	assert.Equal(t, "Tech", set[0].Name)
}

func TestDefaultTickers_ReturnsFreshSlice(t *testing.T) {
	a := DefaultTickers()
	a[0] = "ZZZ"

	assert.Equal(t, "GE", DefaultTickers()[0])
	assert.Len(t, DefaultTickers(), 20)
}
