// Package krypto provides the cryptographic helpers used around OAuth
// handshakes: random tokens for state values, key derivation from a single
// configured secret, authenticated sealing of temporary token secrets, and
// HS256 tokens for stateless handshake cookies.
//
// # Random Tokens
//
//	state, err := krypto.GenerateSecureToken(32) // 64 hex chars
//	nonce, err := krypto.GenerateURLToken(32)    // base64url, no padding
//	id, err := krypto.GenerateUUID()
//
// # Key Derivation
//
// One master secret backs several independent keys:
//
//	signKey, err := krypto.DeriveKey(secret, "handshake-signing", 32)
//	sealKey, err := krypto.DeriveKey(secret, "handshake-sealing", 32)
//
// # Sealing
//
//	sealer, err := krypto.NewSealer(sealKey)
//	sealed, err := sealer.SealString(tokenSecret, providerType)
//	plain, err := sealer.OpenString(sealed, providerType)
//
// The additional data binds a sealed value to its context; opening it under a
// different context fails with ErrOpen.
//
// # HS256 Tokens
//
//	signer, err := krypto.NewHS256(signKey, "beaver-social")
//	token, err := signer.Sign(claims)
//	err = signer.Parse(token, &claims)
//
// Parse requires the configured issuer, an expiry, and the HS256 algorithm.
package krypto
