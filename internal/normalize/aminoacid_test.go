package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToOneLetter(t *testing.T) {
	tests := []struct {
		code   string
		want   string
		wantOK bool
	}{
		{"Val", "V", true},
		{"val", "V", true},
		{"GLU", "E", true},
		{"V", "V", true},
		{"v", "V", true},
		{"Ter", "*", true},
		{"*", "*", true},
		{"Sec", "U", true},
		{"Xaa", "X", true},
		{"B", "", false},
		{"Foo", "", false},
		{"", "", false},
		{"Valine", "", false},
	}
	for _, tt := range tests {
		got, ok := ToOneLetter(tt.code)
		assert.Equal(t, tt.wantOK, ok, tt.code)
		assert.Equal(t, tt.want, got, tt.code)
	}
}

func TestToThreeLetter(t *testing.T) {
	got, ok := ToThreeLetter("e")
	assert.True(t, ok)
	assert.Equal(t, "Glu", got)

	got, ok = ToThreeLetter("*")
	assert.True(t, ok)
	assert.Equal(t, "Ter", got)

	got, ok = ToThreeLetter("tyr")
	assert.True(t, ok)
	assert.Equal(t, "Tyr", got)

	_, ok = ToThreeLetter("J")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	for one, three := range aminoAcidOneToThree {
		got, ok := ToOneLetter(three)
		assert.True(t, ok, three)
		assert.Equal(t, string(one), got)
	}
}

func TestThreeToOne(t *testing.T) {
	assert.Equal(t, "RS", ThreeToOne("ArgSer"))
	assert.Equal(t, "W*", ThreeToOne("TrpTer"))
	assert.Equal(t, "ArgFoo", ThreeToOne("ArgFoo"), "unknown passes through")
	assert.Equal(t, "Ar", ThreeToOne("Ar"))
	assert.Equal(t, "", ThreeToOne(""))
}

func TestScanAminoAcid(t *testing.T) {
	c, n := scanAminoAcid("Val600", 0)
	assert.Equal(t, byte('V'), c)
	assert.Equal(t, 3, n)

	c, n = scanAminoAcid("V600", 0)
	assert.Equal(t, byte('V'), c)
	assert.Equal(t, 1, n)

	_, n = scanAminoAcid("600", 0)
	assert.Zero(t, n)

	seq, n := scanAminoAcids("insArgSer12", 3)
	assert.Equal(t, "RS", seq)
	assert.Equal(t, 6, n)
}

func TestOneToThree(t *testing.T) {
	assert.Equal(t, "SerGluArg", OneToThree("SER"))
	assert.Equal(t, "ArgSerTer", OneToThree("rs*"))
	assert.Equal(t, "SER", ThreeToOne(OneToThree("SER")))
	assert.Equal(t, "B1", OneToThree("B1"))
	assert.Empty(t, OneToThree(""))
}
