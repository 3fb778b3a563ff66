package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullIfBlank(t *testing.T) {
	blank := "   "
	value := "  U-100 "

	assert.Nil(t, NullIfBlank(nil))
	assert.Nil(t, NullIfBlank(&blank))
	require.NotNil(t, NullIfBlank(&value))
	assert.Equal(t, "U-100", *NullIfBlank(&value))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc", "4.2"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("2024-01-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), *d)

	_, err = ParseDate("20/01/2024")
	assert.Error(t, err)
}

func TestWhere(t *testing.T) {
	var w Where
	assert.Equal(t, "", w.SQL())

	w.Add("b.quantity > 0")
	w.Add("(b.title ILIKE ? OR b.author ILIKE ?)", "%go%", "%go%")
	w.Add("b.id <> ?", int64(3))

	assert.Equal(t, "WHERE b.quantity > 0 AND (b.title ILIKE $1 OR b.author ILIKE $2) AND b.id <> $3", w.SQL())
	assert.Equal(t, []any{"%go%", "%go%", int64(3), 20, 0}, w.Args(20, 0))
	assert.Equal(t, "$4", w.Next(1))
}

func TestWhereAddSearch(t *testing.T) {
	var w Where
	w.AddSearch("", "name")
	assert.Equal(t, "", w.SQL())

	w.Add("quantity > 0")
	w.AddSearch("ann", "name", "email")

	assert.Equal(t, "WHERE quantity > 0 AND (name ILIKE $1 OR email ILIKE $2)", w.SQL())
	assert.Equal(t, []any{"%ann%", "%ann%"}, w.Args())
}
