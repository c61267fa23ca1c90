package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "", Fingerprint(""))
	fp := Fingerprint("sk-x")
	assert.Len(t, fp, 8)
	assert.Equal(t, fp, Fingerprint("sk-x"))
	assert.NotEqual(t, fp, Fingerprint("sk-y"))
	assert.NotContains(t, fp, "sk-x")
}
