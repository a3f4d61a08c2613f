package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	assert.Nil(t, parseCSV(""))
	assert.Equal(t, []string{"a@x.com"}, parseCSV("a@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, parseCSV(" a@x.com , b@x.com "))
	assert.Equal(t, []string{"a@x.com"}, parseCSV("a@x.com,,"))
}

func TestContains(t *testing.T) {
	list := []string{"a", "b"}
	assert.True(t, contains(list, "a"))
	assert.False(t, contains(list, "c"))
	assert.False(t, contains(nil, "a"))
}
