// Command rsakit generates textbook RSA key pairs, keeps them in a local
// key store and encrypts or decrypts short messages with them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// Config holds the streams the CLI reads from and writes to.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func run(ctx context.Context, args []string, cfg Config) error {
	root := newRootCmd(cfg)
	root.SetArgs(args)
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)
	return root.ExecuteContext(ctx)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\x1b[%dm[err]\x1b[0m %s\n", 41, fmt.Sprintf(format, args...))
	os.Exit(1)
}
