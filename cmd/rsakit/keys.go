package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vaultsandbox/rsakit"
	"github.com/vaultsandbox/rsakit/internal/keystore"
)

func (a *app) listCmd() *cobra.Command {
	cc := &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
	}
	cc.RunE = a.withStore(func(cmd *cobra.Command, store *keystore.Store) error {
		names, err := store.List()
		if err != nil {
			return err
		}

		tw := table.NewWriter()
		tw.AppendHeader(table.Row{"name", "bits", "fingerprint", "private"})
		for _, name := range names {
			exported, err := store.Get(name)
			if err != nil {
				return err
			}
			tw.AppendRow(table.Row{name, exported.Bits, exported.Fingerprint, exported.PrivateExponent != ""})
		}
		fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
		return nil
	})
	return cc
}

// exportCmd writes a stored key as JSON
//
// Usage:
//
//	rsakit export --key alice [--public]
func (a *app) exportCmd() *cobra.Command {
	cc := &cobra.Command{
		Use:   "export",
		Short: "Print a stored key as JSON",
		Args:  cobra.NoArgs,
	}
	cc.RunE = a.withStore(func(cmd *cobra.Command, store *keystore.Store) error {
		name, _ := cmd.Flags().GetString("key")
		public, _ := cmd.Flags().GetBool("public")

		key, err := loadKey(store, name)
		if err != nil {
			return err
		}

		exported := key.Export()
		if public {
			exported = key.ExportPublic()
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(exported)
	})

	cc.Flags().String("key", "", "Name of the key to export")
	cc.Flags().Bool("public", false, "Omit the private exponent")
	_ = cc.MarkFlagRequired("key")
	return cc
}

// importCmd reads a JSON export from --file or stdin and stores it
//
// Usage:
//
//	rsakit import --name bob [--file bob.json] [--force]
func (a *app) importCmd() *cobra.Command {
	cc := &cobra.Command{
		Use:   "import",
		Short: "Add an exported key to the key store",
		Args:  cobra.NoArgs,
	}
	cc.RunE = a.withStore(func(cmd *cobra.Command, store *keystore.Store) error {
		name, _ := cmd.Flags().GetString("name")
		fpath, _ := cmd.Flags().GetString("file")
		force, _ := cmd.Flags().GetBool("force")

		var (
			data []byte
			err  error
		)
		if fpath != "" {
			data, err = os.ReadFile(fpath)
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return errors.Wrap(err, "read export")
		}

		var exported rsakit.ExportedKeyPair
		if err := json.Unmarshal(data, &exported); err != nil {
			return errors.Wrap(err, "parse export")
		}
		if err := store.Put(name, &exported, force); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s\n", name, exported.Bits, exported.Fingerprint)
		return nil
	})

	cc.Flags().String("name", "", "Name to store the key under")
	cc.Flags().String("file", "", "Export file (read from stdin when empty)")
	cc.Flags().Bool("force", false, "Replace an existing key with the same name")
	_ = cc.MarkFlagRequired("name")
	return cc
}

func (a *app) deleteCmd() *cobra.Command {
	cc := &cobra.Command{
		Use:   "delete",
		Short: "Remove a key from the key store",
		Args:  cobra.NoArgs,
	}
	cc.RunE = a.withStore(func(cmd *cobra.Command, store *keystore.Store) error {
		name, _ := cmd.Flags().GetString("key")
		if err := store.Delete(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
		return nil
	})

	cc.Flags().String("key", "", "Name of the key to delete")
	_ = cc.MarkFlagRequired("key")
	return cc
}
