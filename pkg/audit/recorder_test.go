package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))
	assert.Equal(t, "x", nullableString("x"))
}
