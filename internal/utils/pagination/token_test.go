package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard date/time values
	c := Cursor{
		BizDate:   time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456000, time.UTC),
		ID:        "b5f1c2d0-0000-4000-8000-000000000001",
	}

	token := EncodeToken(c)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.True(t, c.BizDate.Equal(decoded.BizDate))
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)

	// Zero time values
	zero, err := DecodeToken(EncodeToken(Cursor{}))
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.True(t, zero.BizDate.IsZero())
	assert.Empty(t, zero.ID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// "2023-05-15T00:00:00Z" without separators
	_, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// "notadate|x|y"
	_, err = DecodeToken("bm90YWRhdGV8eHx5")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "biz date parse")
}

func TestCursor_Before(t *testing.T) {
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	created := time.Date(2023, 1, 5, 10, 0, 0, 0, time.UTC)
	c := Cursor{BizDate: day, CreatedAt: created, ID: "m"}

	assert.True(t, c.Before(day.AddDate(0, 0, -1), created.Add(time.Hour), "z"), "earlier business date wins")
	assert.False(t, c.Before(day.AddDate(0, 0, 1), created.Add(-time.Hour), "a"), "later business date is on a previous page")
	assert.True(t, c.Before(day, created.Add(-time.Microsecond), "z"))
	assert.True(t, c.Before(day, created, "a"))
	assert.False(t, c.Before(day, created, "m"), "the cursor item itself is excluded")
}
