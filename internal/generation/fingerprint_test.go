package generation

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	hexDigest := regexp.MustCompile(`^[0-9a-f]{64}$`)

	t.Run("known digest", func(t *testing.T) {
		assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Fingerprint(""))
		assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Fingerprint("abc"))
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "Photosynthesis converts light energy into chemical energy."
		assert.Equal(t, Fingerprint(text), Fingerprint(text))
		assert.Regexp(t, hexDigest, Fingerprint(text))
	})

	t.Run("sensitive to any change", func(t *testing.T) {
		assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
		assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abc "))
		assert.NotEqual(t, Fingerprint("abc"), Fingerprint("ABC"))
	})

	t.Run("unicode", func(t *testing.T) {
		assert.Regexp(t, hexDigest, Fingerprint("Zażółć gęślą jaźń"))
	})
}
