package challenge

import (
	"encoding/hex"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
)

// Digest returns the BLAKE2b-256 hex digest of a script or module.
func Digest(src []byte) string {
	sum := blake2b.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// DigestFile returns the digest of the file at path.
func DigestFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Digest(data), nil
}
