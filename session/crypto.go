package session

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
)

// Protected session files carry a magic prefix, a random salt and an
// AES-256-CBC payload. The key derives from the password and salt with
// iterated SHA-256.

var protectedMagic = []byte("PDFSESS1")

const (
	saltSize      = 16
	kdfIterations = 4096
)

// ErrWrongPassword is returned when a protected file fails to decrypt or
// decode with the given password.
var ErrWrongPassword = errors.New("session: wrong password")

// SaveProtected writes doc encrypted under password.
func (c *Codec) SaveProtected(w io.Writer, doc *Document, password string) error {
	if password == "" {
		return errors.New("session: empty password")
	}
	plain, err := c.encode(doc)
	if err != nil {
		return err
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("session: salt: %w", err)
	}
	sealed, err := aesCrypt(deriveKey(password, salt), plain, true)
	if err != nil {
		return fmt.Errorf("session: encrypt: %w", err)
	}
	for _, part := range [][]byte{protectedMagic, salt, sealed} {
		if _, err := w.Write(part); err != nil {
			return fmt.Errorf("session: write: %w", err)
		}
	}
	return nil
}

// LoadProtected reads a file written by SaveProtected.
func (c *Codec) LoadProtected(r io.Reader, password string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("session: read: %w", err)
	}
	if !bytes.HasPrefix(data, protectedMagic) {
		return nil, errors.New("session: not a protected session file")
	}
	data = data[len(protectedMagic):]
	if len(data) < saltSize {
		return nil, errors.New("session: truncated file")
	}
	salt, sealed := data[:saltSize], data[saltSize:]
	plain, err := aesCrypt(deriveKey(password, salt), sealed, false)
	if err != nil {
		return nil, ErrWrongPassword
	}
	doc, err := c.decode(plain)
	if err != nil {
		// A wrong key usually survives unpadding but yields JSON garbage.
		return nil, ErrWrongPassword
	}
	return doc, nil
}

// IsProtected reports whether data starts with the protected file magic.
func IsProtected(data []byte) bool {
	return bytes.HasPrefix(data, protectedMagic)
}

func deriveKey(password string, salt []byte) []byte {
	key := sha256.Sum256(append([]byte(password), salt...))
	for i := 1; i < kdfIterations; i++ {
		key = sha256.Sum256(key[:])
	}
	return key[:]
}

// aesCrypt seals or opens data with AES-256-CBC. Encryption prepends a
// random IV and applies PKCS#7 padding; decryption reverses both.
func aesCrypt(key []byte, data []byte, encrypt bool) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if encrypt {
		iv := make([]byte, aes.BlockSize)
		if _, err := rand.Read(iv); err != nil {
			return nil, err
		}
		padLen := aes.BlockSize - (len(data) % aes.BlockSize)
		if padLen == 0 {
			padLen = aes.BlockSize
		}
		pad := bytes.Repeat([]byte{byte(padLen)}, padLen)
		plain := append(data, pad...)
		out := make([]byte, aes.BlockSize+len(plain))
		copy(out[:aes.BlockSize], iv)
		mode := cipher.NewCBCEncrypter(block, iv)
		mode.CryptBlocks(out[aes.BlockSize:], plain)
		return out, nil
	}
	if len(data) < aes.BlockSize {
		return nil, errors.New("aes ciphertext too short")
	}
	iv := data[:aes.BlockSize]
	ct := data[aes.BlockSize:]
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, errors.New("aes ciphertext not multiple of blocksize")
	}
	out := make([]byte, len(ct))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(out, ct)
	pad := int(out[len(out)-1])
	if pad <= 0 || pad > aes.BlockSize || pad > len(out) {
		return nil, errors.New("invalid aes padding")
	}
	return out[:len(out)-pad], nil
}
