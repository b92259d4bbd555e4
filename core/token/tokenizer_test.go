package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Only the failure path runs here: constructing a real encoder pulls BPE
// vocabulary data over the network, which tests must not depend on.
func TestForModelUnsupported(t *testing.T) {
	_, err := ForModel("definitely-not-a-model")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}
