package secrets

import (
	"errors"
	"testing"

	"github.com/fernet/fernet-go"
)

func testKey(t *testing.T) string {
	t.Helper()
	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key.Encode()
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec(testKey(t))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := codec.Encrypt("api-token-123")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if token == "api-token-123" {
		t.Fatal("token equals plaintext")
	}

	plaintext, err := codec.Decrypt(token)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plaintext != "api-token-123" {
		t.Errorf("plaintext = %q, want original", plaintext)
	}
}

func TestCodec_Disabled(t *testing.T) {
	codec, err := NewCodec("")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if codec.Enabled() {
		t.Error("empty key should disable the codec")
	}
	if _, err := codec.Encrypt("x"); !errors.Is(err, ErrNoKey) {
		t.Errorf("Encrypt error = %v, want ErrNoKey", err)
	}
}

func TestCodec_WrongKey(t *testing.T) {
	codecA, _ := NewCodec(testKey(t))
	codecB, _ := NewCodec(testKey(t))

	token, err := codecA.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := codecB.Decrypt(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decrypt with wrong key = %v, want ErrInvalidToken", err)
	}
}
