package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinanceSignature(t *testing.T) {
	// Reference vector from the Binance API documentation.
	auth := &HMACAuth{
		Key:    "vmPUZE6mv9SD5VNHk4HlWFsOr6aKE2zvsw0MuIgwCIPy6utIco14y7Ju91duEh8A",
		Secret: "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j",
	}
	query := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	assert.Equal(t,
		"c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71",
		auth.BinanceSignature(query))
}

func TestBybitHeadersAt(t *testing.T) {
	auth := &HMACAuth{Key: "api-key", Secret: "api-secret"}

	headers := auth.BybitHeadersAt("coin=BTC", 5000, 1700000000000)

	assert.Equal(t, "api-key", headers["X-BAPI-API-KEY"])
	assert.Equal(t, "1700000000000", headers["X-BAPI-TIMESTAMP"])
	assert.Equal(t, "5000", headers["X-BAPI-RECV-WINDOW"])
	assert.Len(t, headers["X-BAPI-SIGN"], 64)

	// Same inputs sign identically; a different query must not.
	assert.Equal(t, headers["X-BAPI-SIGN"], auth.BybitHeadersAt("coin=BTC", 5000, 1700000000000)["X-BAPI-SIGN"])
	assert.NotEqual(t, headers["X-BAPI-SIGN"], auth.BybitHeadersAt("coin=ETH", 5000, 1700000000000)["X-BAPI-SIGN"])
}

func TestSecretRoundTrip(t *testing.T) {
	blob, err := EncryptSecret("super-secret-api-key", "correct horse")
	require.NoError(t, err)

	plain, err := DecryptSecret(blob, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "super-secret-api-key", plain)

	_, err = DecryptSecret(blob, "wrong password")
	assert.Error(t, err)
}

func TestLoadSecret(t *testing.T) {
	t.Run("raw wins", func(t *testing.T) {
		got, err := LoadSecret(SecretConfig{RawSecret: "raw"})
		require.NoError(t, err)
		assert.Equal(t, "raw", got)
	})

	t.Run("encrypted file", func(t *testing.T) {
		blob, err := EncryptSecret("from-file", "pw")
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "secret.json")
		require.NoError(t, os.WriteFile(path, blob, 0o600))

		got, err := LoadSecret(SecretConfig{EncryptedSecretPath: path, Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "from-file", got)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := LoadSecret(SecretConfig{})
		assert.Error(t, err)
	})
}
