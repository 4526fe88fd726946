package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func testKey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i) ^ b
	}
	return key
}

func TestNewCipher(t *testing.T) {
	cipher, err := NewCipher(testKey(0))
	if err != nil {
		t.Fatalf("unexpected error with valid key: %v", err)
	}
	if cipher == nil {
		t.Fatal("expected non-nil cipher")
	}

	// AES requires 16, 24 or 32 bytes
	_, err = NewCipher(make([]byte, 15))
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestCipherRoundTrip(t *testing.T) {
	cipher, err := NewCipher(testKey(0))
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	tests := []struct {
		name      string
		aad       []byte
		plainText []byte
	}{
		{
			name:      "simple secret",
			aad:       []byte("password-id-1"),
			plainText: []byte("s3cr3t"),
		},
		{
			name:      "empty plaintext",
			aad:       []byte("password-id-2"),
			plainText: []byte(""),
		},
		{
			name:      "long secret",
			aad:       []byte("password-id-3"),
			plainText: bytes.Repeat([]byte("x"), 10000),
		},
		{
			name:      "binary data",
			aad:       []byte("password-id-4"),
			plainText: []byte{0x00, 0x01, 0x02, 0xff, 0xfe, 0xfd},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cipherText, err := cipher.Encrypt(tt.aad, tt.plainText)
			if err != nil {
				t.Fatalf("encryption failed: %v", err)
			}

			if len(tt.plainText) > 0 && bytes.Equal(cipherText, tt.plainText) {
				t.Error("ciphertext should differ from plaintext")
			}

			decrypted, err := cipher.Decrypt(tt.aad, cipherText)
			if err != nil {
				t.Fatalf("decryption failed: %v", err)
			}

			if !bytes.Equal(decrypted, tt.plainText) {
				t.Errorf("decrypted doesn't match original: got %v, want %v", decrypted, tt.plainText)
			}
		})
	}
}

func TestCipherDecryptWithWrongKey(t *testing.T) {
	cipher1, _ := NewCipher(testKey(0))
	cipher2, _ := NewCipher(testKey(0xaa))

	aad := []byte("entry-id")
	cipherText, err := cipher1.Encrypt(aad, []byte("secret data"))
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	_, err = cipher2.Decrypt(aad, cipherText)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed with wrong key, got %v", err)
	}
}

func TestCipherDecryptWithWrongAAD(t *testing.T) {
	cipher, _ := NewCipher(testKey(0))

	cipherText, err := cipher.Encrypt([]byte("entry-a"), []byte("secret data"))
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	_, err = cipher.Decrypt([]byte("entry-b"), cipherText)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed with wrong AAD, got %v", err)
	}
}

func TestCipherDecryptWithCorruptedCiphertext(t *testing.T) {
	cipher, _ := NewCipher(testKey(0))

	aad := []byte("entry-id")
	cipherText, err := cipher.Encrypt(aad, []byte("secret data"))
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	cipherText[len(cipherText)-1] ^= 0xff

	_, err = cipher.Decrypt(aad, cipherText)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed with corrupted ciphertext, got %v", err)
	}
}

func TestCipherDecryptRejectsTruncatedInput(t *testing.T) {
	cipher, _ := NewCipher(testKey(0))

	_, err := cipher.Decrypt([]byte("aad"), []byte("short"))
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed for truncated input, got %v", err)
	}
}

func TestCipherEncryptionIsNonDeterministic(t *testing.T) {
	cipher, _ := NewCipher(testKey(0))

	plainText := []byte("same secret")
	aad := []byte("entry-id")

	cipherText1, _ := cipher.Encrypt(aad, plainText)
	cipherText2, _ := cipher.Encrypt(aad, plainText)

	// random nonce per call
	if bytes.Equal(cipherText1, cipherText2) {
		t.Error("encrypting same plaintext twice should produce different ciphertexts")
	}

	decrypted1, _ := cipher.Decrypt(aad, cipherText1)
	decrypted2, _ := cipher.Decrypt(aad, cipherText2)

	if !bytes.Equal(decrypted1, plainText) || !bytes.Equal(decrypted2, plainText) {
		t.Error("both ciphertexts should decrypt to original plaintext")
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	d1 := Digest([]byte("master-password"))
	d2 := Digest([]byte("master-password"))
	if d1 != d2 {
		t.Error("digest of same input should be identical")
	}
	if d1 == Digest([]byte("other-password")) {
		t.Error("digest of different inputs should differ")
	}
	if len(d1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(d1))
	}
}

func BenchmarkCipherEncrypt(b *testing.B) {
	cipher, _ := NewCipher(testKey(0))
	plainText := bytes.Repeat([]byte("p"), 256)
	aad := []byte("entry-id")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cipher.Encrypt(aad, plainText); err != nil {
			b.Fatal(err)
		}
	}
}
