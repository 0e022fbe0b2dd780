package core

import "fmt"

// Credentials holds the API key pair used to authenticate calls.
type Credentials struct {
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key" yaml:"api_key"`
	// SecretKey is the private key used for signing requests.
	SecretKey string `json:"secret_key" yaml:"secret_key"`
}

// NewCredentials returns a credential pair.
func NewCredentials(apiKey, secretKey string) *Credentials {
	return &Credentials{APIKey: apiKey, SecretKey: secretKey}
}

// Present reports whether both the key and the secret are set.
// A nil receiver is never present.
func (c *Credentials) Present() bool {
	return c != nil && c.APIKey != "" && c.SecretKey != ""
}

func (c *Credentials) String() string {
	if c == nil {
		return "Credentials{}"
	}
	return fmt.Sprintf("Credentials{APIKey:%s}", maskKey(c.APIKey))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
