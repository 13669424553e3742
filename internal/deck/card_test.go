package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{input: "red", want: Red},
		{input: "Blue", want: Blue},
		{input: " g ", want: Green},
		{input: "y", want: Yellow},
		{input: "WHITE", want: White},
		{input: "purple", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRank(t *testing.T) {
	r, err := ParseRank("3")
	require.NoError(t, err)
	assert.Equal(t, Rank(3), r)

	for _, bad := range []string{"0", "6", "x", ""} {
		_, err := ParseRank(bad)
		assert.Error(t, err, bad)
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "red 1", NewCard("card_03", Red, 1).String())
	assert.Equal(t, "??", NewCard("card_03", Red, 1).Masked().String())
}

func TestMaskedKeepsIdentity(t *testing.T) {
	c := NewCard("card_17", White, 5)
	m := c.Masked()
	assert.Equal(t, "card_17", m.ID)
	assert.True(t, m.IsMasked())
	assert.False(t, c.IsMasked())
}

func TestColorJSON(t *testing.T) {
	data, err := json.Marshal(map[Color]int{Red: 2, White: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"red":2,"white":0}`, string(data))

	var card Card
	require.NoError(t, json.Unmarshal([]byte(`{"id":"card_09","color":"green","rank":3}`), &card))
	assert.Equal(t, NewCard("card_09", Green, 3), card)

	var masked Card
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","color":"","rank":0}`), &masked))
	assert.True(t, masked.IsMasked())
}
