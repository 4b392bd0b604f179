package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdenticalStringsScoreFullUnderEveryStrategy(t *testing.T) {
	for _, name := range []string{"jude bellingham", "pedri", "vinicius jose paixao de oliveira junior"} {
		assert.Equal(t, 100.0, Ratio(name, name), "Ratio %q", name)
		assert.Equal(t, 100.0, PartialRatio(name, name), "PartialRatio %q", name)
		assert.Equal(t, 100.0, TokenSortRatio(name, name), "TokenSortRatio %q", name)
		assert.Equal(t, 100.0, TokenSetRatio(name, name), "TokenSetRatio %q", name)
		assert.Equal(t, 100.0, Score(name, name), "Score %q", name)
	}
}

func TestDisjointNamesStayBelowAcceptance(t *testing.T) {
	pairs := [][2]string{
		{"jude bellingham", "unknown nobody xyz"},
		{"kylian mbappe", "harry kane"},
		{"martin odegaard", "bukayo saka"},
	}
	for _, pair := range pairs {
		assert.Less(t, Score(pair[0], pair[1]), 90.0, "%q vs %q", pair[0], pair[1])
	}
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 57.142857, Ratio("kitten", "sitting"), 0.0001)
	assert.Equal(t, 0.0, Ratio("", "abc"))
	assert.Equal(t, 0.0, Ratio("", ""))
}

func TestTokenSortRatioIgnoresOrder(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("bellingham jude", "jude bellingham"))
}

func TestPartialRatioFindsSubstring(t *testing.T) {
	assert.Equal(t, 100.0, PartialRatio("messi", "lionel messi"))
	assert.Equal(t, 100.0, PartialRatio("lionel messi", "messi"))
	assert.Equal(t, 0.0, PartialRatio("", "messi"))
}

func TestTokenSetRatioSubsetIsFull(t *testing.T) {
	assert.Equal(t, 100.0, TokenSetRatio("kylian mbappe", "kylian mbappe lottin"))
	assert.Equal(t, 0.0, TokenSetRatio("", "kylian"))
}

func TestTokenSetRatioPartialOverlap(t *testing.T) {
	got := TokenSetRatio("jude bellingham", "jobe bellingham")
	assert.Greater(t, got, 50.0)
	assert.Less(t, got, 100.0)
}

func TestScoreTakesBestStrategy(t *testing.T) {
	query, candidate := "vinicius junior", "junior vinicius"
	assert.Equal(t, 100.0, Score(query, candidate))
	assert.GreaterOrEqual(t, Score("kante", "ngolo kante"), TokenSortRatio("kante", "ngolo kante"))
}
