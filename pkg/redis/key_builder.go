package redis

import "fmt"

// KeyBuilder prefixes cache keys by environment so staging and production can
// share one Redis instance without stepping on each other.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder picks the prefix from the deployment environment.
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}
	return &KeyBuilder{prefix: prefix}
}

// BuildKey prepends the environment prefix.
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the active environment prefix.
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

func (kb *KeyBuilder) KeyLookupStatus() string {
	return kb.BuildKey(KeyLookupStatus)
}

func (kb *KeyBuilder) KeyLookupJenis() string {
	return kb.BuildKey(KeyLookupJenis)
}

func (kb *KeyBuilder) KeyKegiatanAll() string {
	return kb.BuildKey(KeyKegiatanAll)
}

func (kb *KeyBuilder) KeyDraft(draftID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyDraft, draftID))
}

func (kb *KeyBuilder) KeyTokenRevoked(tokenID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyTokenRevoked, tokenID))
}
