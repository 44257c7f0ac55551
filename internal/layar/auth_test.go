package layar

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"
)

func devHash(secret, timestamp string) string {
	sum := sha1.Sum([]byte(secret + timestamp))
	return hex.EncodeToString(sum[:])
}

func TestVerifyHash(t *testing.T) {
	secret, ts := "s3cret", "1700000000000"
	if !VerifyHash(secret, ts, devHash(secret, ts)) {
		t.Fatal("valid hash rejected")
	}
}

func TestVerifyHashRejects(t *testing.T) {
	secret, ts := "s3cret", "1700000000000"
	cases := map[string]string{
		"wrong secret":    devHash("other", ts),
		"wrong timestamp": devHash(secret, "1"),
		"empty":           "",
		"garbage":         "not-hex-at-all",
	}
	for name, h := range cases {
		if VerifyHash(secret, ts, h) {
			t.Fatalf("%s: accepted %q", name, h)
		}
	}
}

func TestVerifyHashTimestampIsPartOfKey(t *testing.T) {
	// same secret, different timestamps must not collide
	secret := "s3cret"
	if devHash(secret, "111") == devHash(secret, "222") {
		t.Fatal("hash ignores timestamp")
	}
}
