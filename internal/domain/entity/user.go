// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// UserProfile is the durable identity document for a marketplace account.
// It is keyed by the locally-minted session subject (e.g. "inapas_xyz") and
// merges the verified claims asserted by the INAPAS identity provider on
// every successful federated login.
// The provider token set is persisted but never serialized to JSON: callers
// reach live tokens only through the refresh endpoint.
type UserProfile struct {
	ID            string    `firestore:"-" json:"id"`                                  // Document ID, equal to the minted session subject.
	Email         string    `firestore:"email" json:"email"`                           // Verified email asserted by the provider.
	FirstName     string    `firestore:"firstName" json:"firstName"`                   // First whitespace token of the decrypted full name.
	LastName      string    `firestore:"lastName" json:"lastName"`                     // Remainder of the full name, space-joined.
	NIK           string    `firestore:"nik,omitempty" json:"nik,omitempty"`           // Indonesian national identity number.
	Phone         string    `firestore:"phone,omitempty" json:"phone,omitempty"`       // Verified phone number.
	DateOfBirth   string    `firestore:"dob,omitempty" json:"dob,omitempty"`           // Date of birth as asserted (provider format).
	InapasID      string    `firestore:"inapasId,omitempty" json:"inapasId,omitempty"` // Federated subject identifier.
	EmailVerified bool      `firestore:"emailVerified" json:"emailVerified"`           // Always true for federated logins.
	AccountType   string    `firestore:"accountType,omitempty" json:"accountType"`     // Classification, defaults to "consumer".
	LastLogin     time.Time `firestore:"lastLogin" json:"lastLogin"`                   // Timestamp of the most recent successful login.
	InapasTokens  *TokenSet `firestore:"inapas_tokens,omitempty" json:"-"`             // Current provider token set for silent refresh.
}

// AccountType classifications. New profiles default to consumer; an account
// promoted to merchant keeps that classification across logins.
const (
	AccountTypeConsumer = "consumer"
	AccountTypeMerchant = "merchant"
)

// FullName joins the split name parts back together for display purposes.
func (u *UserProfile) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}

	return u.FirstName + " " + u.LastName
}
