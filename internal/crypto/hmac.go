package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// HMACAuth holds the credentials for HMAC-authenticated requests against the
// venue REST APIs. Binance and Bybit both sign with HMAC-SHA256 over the raw
// secret, hex-encoded, but differ in what the signed message contains.
type HMACAuth struct {
	Key    string // API key
	Secret string // API secret
}

// BinanceSignature signs a fully encoded query string, which must already
// include the timestamp parameter. The result goes back into the query as the
// signature parameter; the API key travels in the X-MBX-APIKEY header.
func (h *HMACAuth) BinanceSignature(query string) string {
	return hmacSHA256Hex([]byte(h.Secret), query)
}

// BybitHeaders returns the HTTP headers for a Bybit v5 GET request. The
// signature covers timestamp + key + recvWindow + query, with the query
// string in its final encoded form.
//
// Returned header keys:
//   - X-BAPI-API-KEY
//   - X-BAPI-TIMESTAMP
//   - X-BAPI-RECV-WINDOW
//   - X-BAPI-SIGN
func (h *HMACAuth) BybitHeaders(query string, recvWindow int) map[string]string {
	return h.BybitHeadersAt(query, recvWindow, time.Now().UnixMilli())
}

// BybitHeadersAt is like BybitHeaders but lets the caller supply the
// millisecond timestamp (useful for deterministic testing).
func (h *HMACAuth) BybitHeadersAt(query string, recvWindow int, unixMilli int64) map[string]string {
	ts := strconv.FormatInt(unixMilli, 10)
	rw := strconv.Itoa(recvWindow)

	message := ts + h.Key + rw + query
	sig := hmacSHA256Hex([]byte(h.Secret), message)

	return map[string]string{
		"X-BAPI-API-KEY":     h.Key,
		"X-BAPI-TIMESTAMP":   ts,
		"X-BAPI-RECV-WINDOW": rw,
		"X-BAPI-SIGN":        sig,
	}
}

// hmacSHA256Hex computes HMAC-SHA256 of message using key and returns the
// result hex-encoded.
func hmacSHA256Hex(key []byte, message string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
