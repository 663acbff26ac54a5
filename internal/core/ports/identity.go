package ports

// IdentityInput carries what the identity resolver needs to find or
// provision an account.
type IdentityInput struct {
	Email       string
	DisplayName string
	Phone       string // optional
	// OriginKey is the dedup key of the purchase provisioning the account.
	OriginKey string
}
