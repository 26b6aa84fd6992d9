package entity

// ProviderType identifies an external identity provider.
type ProviderType string

const (
	// ProviderTypeInapas is the Indonesian national federated identity provider.
	ProviderTypeInapas ProviderType = "inapas"
)
