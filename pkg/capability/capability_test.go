package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "landledger/pkg/domain-errors"
)

func TestCheck(t *testing.T) {
	registry := Mint("registry")

	assert.NoError(t, Check(registry, registry))

	t.Run("a second mint with the same name is a different handle", func(t *testing.T) {
		err := Check(registry, Mint("registry"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotRegistry))
	})

	t.Run("zero handles never authorize", func(t *testing.T) {
		err := Check(Handle{}, Handle{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotRegistry))
	})
}
