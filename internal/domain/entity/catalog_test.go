package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Plomería"))
	assert.True(t, ValidCategory("Otros"))
	assert.False(t, ValidCategory("plomería"))
	assert.False(t, ValidCategory(""))
}

func TestValidLocation(t *testing.T) {
	assert.True(t, ValidLocation("Managua Centro"))
	assert.True(t, ValidLocation("RAAS"))
	assert.False(t, ValidLocation("Miami"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "C$ 15000", FormatPrice(15000))
	assert.Equal(t, "C$ 800", FormatPrice(800))
}
