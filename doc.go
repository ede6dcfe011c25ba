// Package rsakit implements textbook RSA: probable-prime generation with
// Miller-Rabin, key pair derivation with the extended Euclidean algorithm,
// and raw modular-exponentiation encryption and decryption.
//
// There is no padding. Ciphertexts are deterministic and malleable, and
// nothing here resists side channels. Use crypto/rsa for real traffic; this
// package exists to make the underlying arithmetic explicit and testable.
//
// Basic usage:
//
//	key, err := rsakit.GenerateKeyPair(ctx, 2048)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	c, err := rsakit.Encrypt([]byte("HELLO"), key)
//	if err != nil {
//	    log.Fatal(err) // ErrMessageTooLarge if the message does not fit
//	}
//
//	plaintext, err := rsakit.Decrypt(c, key)
//
// Randomness is an explicit dependency. Pass WithRand a seeded reader to make
// generation reproducible; the default is crypto/rand.
package rsakit
