package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	d, err := Resolve(RawText(" 1999 "))
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(1999)))

	d, err = Resolve(RawText("12.5"))
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	_, err = Resolve(RawText(""))
	assert.ErrorIs(t, err, ErrEmptyNumber)

	_, err = Resolve(RawText("12,5€"))
	assert.ErrorIs(t, err, ErrNotNumber)

	_, err = Resolve(nil)
	assert.ErrorIs(t, err, ErrEmptyNumber)

	d, err = Resolve(ParsedInt(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.IntPart())
}

func TestResolveInt(t *testing.T) {
	n, err := ResolveInt(RawText("-4"))
	require.NoError(t, err)
	assert.Equal(t, int64(-4), n)

	n, err = ResolveInt(RawText("2.0"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = ResolveInt(RawText("2.5"))
	assert.ErrorIs(t, err, ErrNotInteger)

	n, err = ResolveInt(RawText("9223372036854775807"))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), n)

	for _, text := range []string{"18446744073709551621", "9223372036854775808", "-9223372036854775809", "1e30"} {
		_, err = ResolveInt(RawText(text))
		assert.ErrorIs(t, err, ErrOutOfRange, text)
	}
}

func TestNumericText(t *testing.T) {
	assert.Equal(t, "7", ParsedInt(7).Text())
	assert.Equal(t, "7.", RawText("7.").Text())
}

func TestParseOutcome(t *testing.T) {
	o, err := ParseOutcome("Reset")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReset, o)

	o, err = ParseOutcome("terminal")
	require.NoError(t, err)
	assert.Equal(t, OutcomeTerminal, o)

	_, err = ParseOutcome("later")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	assert.False(t, Outcome(0).Valid())
}

func TestDraftFieldsAndImages(t *testing.T) {
	d := ProductDraft{}
	d, ok := d.WithField(FieldName, "Linen shirt")
	require.True(t, ok)
	assert.Equal(t, "Linen shirt", d.Name)

	_, ok = d.WithField(ScalarField("price"), "1")
	assert.False(t, ok)

	d = d.WithImage(SlotSecondary, ImageRef{PreviewID: "p", URL: "https://x/y.png"})
	assert.False(t, d.ImageAt(SlotPrimary).Attached())
	assert.True(t, d.ImageAt(SlotSecondary).Uploaded())
	assert.Equal(t, "imageUrl2", SlotSecondary.Path())
	assert.False(t, ImageSlot(3).Valid())
}
