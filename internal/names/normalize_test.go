package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Jude Bellingham", "jude bellingham"},
		{"acute accent", "Kylian Mbappé", "kylian mbappe"},
		{"stroke letter", "Martin Ødegaard", "martin odegaard"},
		{"ligature", "Mathias Dæhli", "mathias daehli"},
		{"sharp s", "Kai Haßler", "kai hassler"},
		{"hyphen becomes space", "Jean-Philippe Mateta", "jean philippe mateta"},
		{"punctuation dropped", "  N'Golo   Kanté! ", "ngolo kante"},
		{"turkish dotted capital", "İlkay Gündoğan", "ilkay gundogan"},
		{"digits kept", "Player 23", "player 23"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	samples := []string{
		"Jude Bellingham",
		"Vinícius Júnior",
		"Ødegaard-Ærø",
		"  Ñíguez\tSaúl ",
		"Łukasz Fabiański",
		"Þórir Jóhann Helgason",
		"Çağlar Söyüncü",
		"!!!",
		"",
	}
	for _, s := range samples {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "normalize(normalize(%q))", s)
	}
}

func TestLength(t *testing.T) {
	assert.Equal(t, 7, Length(" Pedri  "+"!!"+"x"), `" Pedri  !!x" normalizes to "pedri x"`)
	assert.Equal(t, 5, Length("Zé-Ró"))
	assert.Zero(t, Length("   "))
}
