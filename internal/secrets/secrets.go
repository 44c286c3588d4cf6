// Package secrets wraps fernet token handling for values persisted in the
// settings table. The store backends are plain files a user may sync or back
// up, so credentials written there are encrypted at rest.
package secrets

import (
	"errors"

	"github.com/fernet/fernet-go"
)

// ErrNoKey indicates encryption was requested without a configured key.
var ErrNoKey = errors.New("secrets: no fernet key configured")

// ErrInvalidToken indicates a token that failed verification or decryption.
var ErrInvalidToken = errors.New("secrets: invalid token")

// Codec encrypts and decrypts short secret strings with a fernet key.
type Codec struct {
	keys []*fernet.Key
}

// NewCodec parses a base64 fernet key. An empty key yields a disabled codec
// whose operations return ErrNoKey.
func NewCodec(key string) (*Codec, error) {
	if key == "" {
		return &Codec{}, nil
	}
	keys, err := fernet.DecodeKeys(key)
	if err != nil {
		return nil, err
	}
	return &Codec{keys: keys}, nil
}

// Enabled reports whether a key is configured.
func (c *Codec) Enabled() bool {
	return len(c.keys) > 0
}

// Encrypt seals a plaintext secret into a fernet token.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if !c.Enabled() {
		return "", ErrNoKey
	}
	token, err := fernet.EncryptAndSign([]byte(plaintext), c.keys[0])
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Decrypt opens a fernet token produced by Encrypt. Tokens do not expire;
// rotation happens by rewriting the setting.
func (c *Codec) Decrypt(token string) (string, error) {
	if !c.Enabled() {
		return "", ErrNoKey
	}
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, c.keys)
	if plaintext == nil {
		return "", ErrInvalidToken
	}
	return string(plaintext), nil
}
