package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DedupKey identifies a logical purchase in the ledger.
type DedupKey string

const derivedKeyPrefix = "derived:"

// DeriveDedupKey returns the ledger key for a purchase. A non-blank
// transaction id is used verbatim. Without one, the key is a hash of the
// normalized email and the course id, so every transaction-less event for
// the same buyer and course maps to the same purchase.
func DeriveDedupKey(transactionID, email, courseID string) DedupKey {
	if tx := strings.TrimSpace(transactionID); tx != "" {
		return DedupKey(tx)
	}
	sum := sha256.Sum256([]byte(NormalizeEmail(email) + "\x00" + strings.TrimSpace(courseID)))
	return DedupKey(derivedKeyPrefix + hex.EncodeToString(sum[:]))
}

// Derived reports whether k was synthesized from email and course.
func (k DedupKey) Derived() bool {
	return strings.HasPrefix(string(k), derivedKeyPrefix)
}

func (k DedupKey) String() string { return string(k) }

// ProcessedTransaction is a ledger entry: the purchase identified by Key has
// already produced AccountID and EnrollmentID.
type ProcessedTransaction struct {
	Key           DedupKey  `json:"key"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Derived       bool      `json:"derived"`
	AccountID     string    `json:"account_id"`
	EnrollmentID  string    `json:"enrollment_id"`
	RecordedAt    time.Time `json:"recorded_at"`
}
