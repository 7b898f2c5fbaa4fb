package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1990-04-12")
	assert.NoError(t, err)
	assert.Equal(t, "1990-04-12", d.Format(DateLayout))

	for _, raw := range []string{"12-04-1990", "1990/04/12", "April 12 1990", ""} {
		_, err := ParseDate(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestDate_JSON(t *testing.T) {
	d, err := ParseDate("2024-11-05")
	assert.NoError(t, err)

	encoded, err := json.Marshal(d)
	assert.NoError(t, err)
	assert.Equal(t, `"2024-11-05"`, string(encoded))

	var decoded Date
	assert.NoError(t, json.Unmarshal([]byte(`"2024-11-05"`), &decoded))
	assert.True(t, decoded.Equal(d.Time))
}
