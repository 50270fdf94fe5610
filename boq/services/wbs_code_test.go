package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWbsLevel(t *testing.T) {
	tests := []struct {
		code  string
		level int
	}{
		{"7", 1},
		{"1.2", 2},
		{"1.2.3", 3},
		{"10.20.30.40", 4},
		{"A.1", 2},
		{"", 1},
		{"   ", 1},
		{" 3.1 ", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, WbsLevel(tt.code), "code %q", tt.code)
	}
}

func TestParentItemCode(t *testing.T) {
	parent := ParentItemCode("1.2.3")
	require.NotNil(t, parent)
	assert.Equal(t, "1.2", *parent)

	parent = ParentItemCode("3.1")
	require.NotNil(t, parent)
	assert.Equal(t, "3", *parent)

	assert.Nil(t, ParentItemCode("7"))
	assert.Nil(t, ParentItemCode(""))
	assert.Nil(t, ParentItemCode("   "))

	parent = ParentItemCode("A.1.b")
	require.NotNil(t, parent)
	assert.Equal(t, "A.1", *parent)
}
