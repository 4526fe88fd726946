package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const ivSize = 12
const tagSize = aes.BlockSize
const versionMagic = byte('V')

// Errors distinguishing the two crypto failure modes. ErrDecryptionFailed
// must stay distinct from a not-found condition upstream so callers can
// tell "exists but unreadable" from "does not exist".
var (
	ErrInvalidKey       = errors.New("invalid encryption key")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Cipher is symmetric authenticated encryption over packed ciphertexts.
// Implementations hold no per-call state beyond the key schedule.
type Cipher interface {
	Encrypt(aad, plainText []byte) ([]byte, error)
	Decrypt(aad, packedText []byte) ([]byte, error)
}

type symmetric struct {
	aesgcm cipher.AEAD
}

// NewCipher builds an AES-GCM cipher from a 16, 24 or 32 byte key.
func NewCipher(key []byte) (Cipher, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	aesgcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &symmetric{aesgcm: aesgcm}, nil
}

func (s *symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomNonce()
	if err != nil {
		return nil, err
	}

	cipherTextWithTag := s.aesgcm.Seal(nil, nonce, plainText, aad)
	return packCipherData(cipherTextWithTag, nonce), nil
}

func (s *symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	// Smallest valid packed text: magic + tag + iv around an empty body.
	if len(packedText) < 1+tagSize+ivSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}
	if packedText[0] != versionMagic {
		return nil, fmt.Errorf("%w: unknown ciphertext version", ErrDecryptionFailed)
	}

	cipherText, iv := unpackCipherData(packedText)

	plainText, err := s.aesgcm.Open(nil, iv, cipherText, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plainText, nil
}

// Digest returns the hex-encoded SHA-256 of a secret. Deterministic, used
// for authentication-credential comparison only.
func Digest(secret []byte) string {
	sum := sha256.Sum256(secret)
	return hex.EncodeToString(sum[:])
}

// RandomNonce returns a fresh GCM nonce.
func RandomNonce() ([]byte, error) {
	// Never use more than 2^32 random nonces with a given key because of
	// the risk of a repeat.
	return RandomBytes(ivSize)
}

// RandomBytes returns size cryptographically random bytes.
func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

// Packed layout: magic | tag | iv | ctext
func packCipherData(cipherTextWithTag []byte, iv []byte) []byte {
	iv = iv[:ivSize]

	tagStartIndex := len(cipherTextWithTag) - tagSize
	tag := cipherTextWithTag[tagStartIndex:]
	cipherText := cipherTextWithTag[:tagStartIndex]

	data := make([]byte, 1+tagSize+ivSize+len(cipherText))
	data[0] = versionMagic
	index := 1

	copy(data[index:], tag)
	index += tagSize

	copy(data[index:], iv)
	index += ivSize

	copy(data[index:], cipherText)

	return data
}

func unpackCipherData(packedText []byte) ([]byte, []byte) {
	index := 1

	nextIndex := index + tagSize
	tag := packedText[index:nextIndex]
	index = nextIndex

	nextIndex = index + ivSize
	iv := packedText[index:nextIndex]
	index = nextIndex

	// GCM wants the tag appended to the ciphertext.
	cipherText := make([]byte, 0, len(packedText)-index+tagSize)
	cipherText = append(cipherText, packedText[index:]...)
	cipherText = append(cipherText, tag...)

	return cipherText, iv
}
