package review

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAskApprove(t *testing.T) {
	var out bytes.Buffer
	res := ask("package main", strings.NewReader("r\n"), &out)
	assert.True(t, res.Approved)
	assert.Equal(t, "run_once", res.UserAction)
	assert.Contains(t, out.String(), "package main")
}

func TestAskDiscard(t *testing.T) {
	var out bytes.Buffer
	res := ask("package main", strings.NewReader("no\n"), &out)
	assert.False(t, res.Approved)
	assert.Equal(t, "discard", res.UserAction)
}

func TestAskRepromptsOnGarbage(t *testing.T) {
	var out bytes.Buffer
	res := ask("package main", strings.NewReader("what\nr\n"), &out)
	assert.True(t, res.Approved)
	assert.Contains(t, out.String(), "Enter 'r' to run")
}

func TestAskEOF(t *testing.T) {
	var out bytes.Buffer
	res := ask("package main", strings.NewReader(""), &out)
	assert.False(t, res.Approved)
	assert.Equal(t, "error_reading_input", res.UserAction)
}
