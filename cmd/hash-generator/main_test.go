package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerate(t *testing.T) {
	in := strings.NewReader("correct horse battery\nshort\n")
	var out bytes.Buffer

	require.NoError(t, generate(in, &out, bcrypt.MinCost))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[0]), []byte("correct horse battery")))
	cost, err := bcrypt.Cost([]byte(lines[0]))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.Contains(t, lines[1], "line 2:")
	assert.Contains(t, lines[1], "at least 12 characters")
}

func TestGenerateRejectsInvalidCost(t *testing.T) {
	err := generate(strings.NewReader(""), &bytes.Buffer{}, bcrypt.MaxCost+1)
	assert.Error(t, err)
}
