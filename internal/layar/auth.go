package layar

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
)

// VerifyHash reports whether developerHash equals the hex SHA-1 digest of the
// shared secret concatenated with the request timestamp (secret first). The
// digest algorithm is fixed by the Layar publishing platform.
func VerifyHash(secret, timestamp, developerHash string) bool {
	sum := sha1.Sum([]byte(secret + timestamp))
	want := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(want), []byte(developerHash)) == 1
}
