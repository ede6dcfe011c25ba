package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vaultsandbox/rsakit"
	"github.com/vaultsandbox/rsakit/internal/keystore"
)

// encryptCmd prints the decimal ciphertext of a UTF-8 message
//
// Usage:
//
//	rsakit encrypt --key alice --message "HELLO"
//	echo -n HELLO | rsakit encrypt --key alice
func (a *app) encryptCmd() *cobra.Command {
	cc := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message with a stored key",
		Args:  cobra.NoArgs,
	}
	cc.RunE = a.withStore(func(cmd *cobra.Command, store *keystore.Store) error {
		name, _ := cmd.Flags().GetString("key")
		key, err := loadKey(store, name)
		if err != nil {
			return err
		}

		message, err := flagOrStdin(cmd, "message")
		if err != nil {
			return err
		}

		c, err := rsakit.Encrypt([]byte(message), key)
		if err != nil {
			return err
		}
		a.log.Debug("message encrypted", zap.String("key", name), zap.Int("bytes", len(message)))

		fmt.Fprintln(cmd.OutOrStdout(), c.String())
		return nil
	})

	cc.Flags().String("key", "", "Name of the key to encrypt with")
	cc.Flags().String("message", "", "Message to encrypt (read from stdin when empty)")
	_ = cc.MarkFlagRequired("key")
	return cc
}

// decryptCmd prints the plaintext of a decimal ciphertext
//
// Usage:
//
//	rsakit decrypt --key alice --ciphertext 1234... [--size 16]
func (a *app) decryptCmd() *cobra.Command {
	cc := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a ciphertext with a stored key",
		Args:  cobra.NoArgs,
	}
	cc.RunE = a.withStore(func(cmd *cobra.Command, store *keystore.Store) error {
		name, _ := cmd.Flags().GetString("key")
		size, _ := cmd.Flags().GetInt("size")

		key, err := loadKey(store, name)
		if err != nil {
			return err
		}

		text, err := flagOrStdin(cmd, "ciphertext")
		if err != nil {
			return err
		}
		c, ok := new(big.Int).SetString(strings.TrimSpace(text), 10)
		if !ok {
			return errors.Wrap(rsakit.ErrMalformedCiphertext, "ciphertext is not a decimal integer")
		}

		var plain []byte
		if cmd.Flags().Changed("size") {
			plain, err = rsakit.DecryptFixed(c, key, size)
		} else {
			plain, err = rsakit.Decrypt(c, key)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(plain))
		return nil
	})

	cc.Flags().String("key", "", "Name of the key to decrypt with")
	cc.Flags().String("ciphertext", "", "Decimal ciphertext (read from stdin when empty)")
	cc.Flags().Int("size", 0, "Left-pad the plaintext to this many bytes")
	_ = cc.MarkFlagRequired("key")
	return cc
}

func loadKey(store *keystore.Store, name string) (*rsakit.KeyPair, error) {
	exported, err := store.Get(name)
	if err != nil {
		return nil, err
	}
	return rsakit.ImportKeyPair(exported)
}

func flagOrStdin(cmd *cobra.Command, name string) (string, error) {
	value, _ := cmd.Flags().GetString(name)
	if value != "" {
		return value, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(err, "read stdin")
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
