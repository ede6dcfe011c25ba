package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vaultsandbox/rsakit/internal/config"
	"github.com/vaultsandbox/rsakit/internal/keystore"
	"github.com/vaultsandbox/rsakit/internal/logger"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	io   Config
	v    *viper.Viper
	conf *config.Config
	log  *zap.Logger
}

func newRootCmd(cfg Config) *cobra.Command {
	a := &app{io: cfg, v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "rsakit",
		Short:         "Textbook RSA key generation and encryption",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "Specify the configuration file")
	pf.String("keystore", "", "Key store directory")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	a.bind("keystore", pf, "keystore")
	a.bind("log.level", pf, "log-level")

	root.AddCommand(
		a.keygenCmd(),
		a.encryptCmd(),
		a.decryptCmd(),
		a.listCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.deleteCmd(),
		initCmd(),
		versionCmd(),
	)
	return root
}

// bind makes flag name of fs the highest-precedence source of key.
func (a *app) bind(key string, fs *pflag.FlagSet, name string) {
	if err := a.v.BindPFlag(key, fs.Lookup(name)); err != nil {
		panic(err)
	}
}

// load reads the configuration and builds the logger. Flags bound with
// bind take precedence over the file and the environment.
func (a *app) load(cmd *cobra.Command) error {
	fpath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	a.conf, err = config.Load(a.v, fpath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	a.log, err = logger.New(a.conf.Log, a.io.Stderr)
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	return nil
}

// open loads the configuration and opens the key store. The caller closes
// the returned store.
func (a *app) open(cmd *cobra.Command) (*keystore.Store, error) {
	if err := a.load(cmd); err != nil {
		return nil, err
	}
	store, err := keystore.Open(a.conf.Keystore, 0, 0)
	if err != nil {
		return nil, err
	}
	a.log.Debug("keystore opened", zap.String("path", store.Path()))
	return store, nil
}

// withStore adapts fn into a cobra RunE that owns the store lifetime.
func (a *app) withStore(fn func(cmd *cobra.Command, store *keystore.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		store, err := a.open(cmd)
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck
		defer store.Close()
		return fn(cmd, store)
	}
}
