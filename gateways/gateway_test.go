package gateways

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForMethod(t *testing.T) {
	esewa, err := ForMethod("esewa")
	require.NoError(t, err)
	assert.Equal(t, "eSewa", esewa.Name())

	khalti, err := ForMethod("khalti")
	require.NoError(t, err)
	assert.Equal(t, "Khalti", khalti.Name())

	_, err = ForMethod("imepay")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)

	_, err = ForMethod("")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}
