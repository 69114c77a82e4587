package secrets

// Plain is the passthrough Encryptor for deployments that store secrets
// unencrypted. It keeps callers free of nil checks when no key is
// configured.
type Plain struct{}

func NewPlain() *Plain {
	return &Plain{}
}

func (*Plain) Encrypt(plaintext []byte, _ int64) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrPlaintextEmpty
	}

	out := make([]byte, len(plaintext))
	copy(out, plaintext)
	return out, nil
}

func (*Plain) Decrypt(ciphertext []byte, _ int64) ([]byte, error) {
	out := make([]byte, len(ciphertext))
	copy(out, ciphertext)
	return out, nil
}
