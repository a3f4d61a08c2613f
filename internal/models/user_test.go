package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	u := User{Email: "taps@example.com"}
	assert.Equal(t, "taps@example.com", u.DisplayName())

	u.FirstName = "Ada"
	assert.Equal(t, "Ada", u.DisplayName())

	u.LastName = "Lovelace"
	assert.Equal(t, "Ada Lovelace", u.DisplayName())
}
