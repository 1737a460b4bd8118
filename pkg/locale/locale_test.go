package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	it, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "it", it.Code)

	en, err := Lookup("en-US")
	require.NoError(t, err)
	assert.Equal(t, "en", en.Code)

	_, err = Lookup("tlh")
	assert.ErrorIs(t, err, ErrUnknownLocale)
}

func TestMonthNameIsCapitalized(t *testing.T) {
	assert.Equal(t, "Ottobre", MustLookup("it").MonthName(time.October))
	assert.Equal(t, "January", MustLookup("en").MonthName(time.January))
}

func TestLabels(t *testing.T) {
	it := MustLookup("it")
	assert.Equal(t, "Presa alle 08:30", it.TakenAt("08:30"))
	assert.Equal(t, "lun", it.WeekdayShort(time.Monday))
}
