package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type normalizedCheckout struct {
	UserID  string `json:"userId"`
	Address string `json:"address"`
}

// FingerprintCheckout hashes the checkout request without its idempotency key.
func FingerprintCheckout(userID, address string) (string, error) {
	payload, err := json.Marshal(normalizedCheckout{
		UserID:  strings.TrimSpace(userID),
		Address: strings.Join(strings.Fields(address), " "),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// idempotencyKey scopes a client key to its user so two users never share a record.
func idempotencyKey(userID, key string) string {
	return userID + ":" + key
}
