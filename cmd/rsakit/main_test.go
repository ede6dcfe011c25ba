package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultsandbox/rsakit"
	"github.com/vaultsandbox/rsakit/internal/config"
	"github.com/vaultsandbox/rsakit/internal/keystore"
)

type cli struct {
	t     *testing.T
	dir   string
	store string
}

// newCLI runs every invocation from a fresh working directory with its own
// key store.
func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	return &cli{t: t, dir: dir, store: filepath.Join(dir, "keys")}
}

func (c *cli) run(stdin string, args ...string) (string, string, error) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := Config{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	args = append(args, "--keystore", c.store)
	err := run(context.Background(), args, cfg)
	return stdout.String(), stderr.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, stderr, err := c.run("", args...)
	require.NoError(c.t, err, stderr)
	return out
}

func (c *cli) keygen(name, seed string) string {
	c.t.Helper()
	return c.mustRun("keygen", "--name", name, "--bits", "64", "--seed", seed)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, os.Stdin, cfg.Stdin)
	assert.Equal(t, os.Stdout, cfg.Stdout)
	assert.Equal(t, os.Stderr, cfg.Stderr)
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("version")
	assert.Equal(t, "rsakit "+Version+"\n", out)
}

func TestKeygen(t *testing.T) {
	c := newCLI(t)
	out := c.keygen("alice", "00ff")

	fields := strings.Fields(out)
	require.Len(t, fields, 3)
	assert.Equal(t, "alice", fields[0])
	assert.Contains(t, []string{"63", "64"}, fields[1])

	store, err := keystore.Open(c.store, 0, 0)
	require.NoError(t, err)
	defer store.Close()

	exported, err := store.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, fields[2], exported.Fingerprint)
	assert.NotEmpty(t, exported.PrivateExponent)
}

func TestKeygen_Deterministic(t *testing.T) {
	first := newCLI(t).keygen("k", "0102030405")
	second := newCLI(t).keygen("k", "0102030405")
	other := newCLI(t).keygen("k", "0102030406")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestKeygen_Exists(t *testing.T) {
	c := newCLI(t)
	first := c.keygen("alice", "01")

	_, _, err := c.run("", "keygen", "--name", "alice", "--bits", "64", "--seed", "02")
	assert.ErrorIs(t, err, keystore.ErrExists)

	replaced := c.mustRun("keygen", "--name", "alice", "--bits", "64", "--seed", "02", "--force")
	assert.NotEqual(t, first, replaced)
}

func TestKeygen_InvalidInput(t *testing.T) {
	c := newCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing name", []string{"keygen", "--bits", "64"}},
		{"bad name", []string{"keygen", "--name", "a b", "--bits", "64"}},
		{"odd bits", []string{"keygen", "--name", "k", "--bits", "65"}},
		{"even exponent", []string{"keygen", "--name", "k", "--bits", "64", "--exponent", "4"}},
		{"bad seed", []string{"keygen", "--name", "k", "--bits", "64", "--seed", "zz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.run("", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestKeygen_LogsToStderr(t *testing.T) {
	c := newCLI(t)
	_, stderr, err := c.run("", "keygen", "--name", "k", "--bits", "64", "--seed", "aa", "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, stderr, "key pair generated")
	assert.Contains(t, stderr, "keystore opened")
}

func TestEncryptDecrypt(t *testing.T) {
	c := newCLI(t)
	c.keygen("alice", "beef")

	ciphertext := strings.TrimSpace(c.mustRun("encrypt", "--key", "alice", "--message", "HELLO"))
	assert.NotEqual(t, "HELLO", ciphertext)

	out := c.mustRun("decrypt", "--key", "alice", "--ciphertext", ciphertext)
	assert.Equal(t, "HELLO\n", out)
}

func TestEncryptDecrypt_Stdin(t *testing.T) {
	c := newCLI(t)
	c.keygen("alice", "beef")

	ciphertext, _, err := c.run("HI\n", "encrypt", "--key", "alice")
	require.NoError(t, err)

	out, _, err := c.run(ciphertext, "decrypt", "--key", "alice")
	require.NoError(t, err)
	assert.Equal(t, "HI\n", out)
}

func TestDecrypt_Size(t *testing.T) {
	c := newCLI(t)
	c.keygen("alice", "beef")

	message := "\x00\x00AB"
	ciphertext := strings.TrimSpace(c.mustRun("encrypt", "--key", "alice", "--message", message))

	assert.Equal(t, "AB\n", c.mustRun("decrypt", "--key", "alice", "--ciphertext", ciphertext))
	assert.Equal(t, message+"\n", c.mustRun("decrypt", "--key", "alice", "--ciphertext", ciphertext, "--size", "4"))

	_, _, err := c.run("", "decrypt", "--key", "alice", "--ciphertext", ciphertext, "--size", "1")
	assert.ErrorIs(t, err, rsakit.ErrMessageTooLarge)
}

func TestEncrypt_Errors(t *testing.T) {
	c := newCLI(t)
	c.keygen("alice", "beef")

	_, _, err := c.run("", "encrypt", "--key", "alice", "--message", strings.Repeat("x", 32))
	assert.ErrorIs(t, err, rsakit.ErrMessageTooLarge)

	_, _, err = c.run("", "encrypt", "--key", "nobody", "--message", "HI")
	assert.ErrorIs(t, err, keystore.ErrNotFound)
}

func TestDecrypt_Errors(t *testing.T) {
	c := newCLI(t)
	c.keygen("alice", "beef")

	_, _, err := c.run("", "decrypt", "--key", "alice", "--ciphertext", "not-a-number")
	assert.ErrorIs(t, err, rsakit.ErrMalformedCiphertext)

	_, _, err = c.run("", "decrypt", "--key", "alice", "--ciphertext", "-5")
	assert.ErrorIs(t, err, rsakit.ErrMalformedCiphertext)

	_, _, err = c.run("", "decrypt", "--key", "alice", "--ciphertext", strings.Repeat("9", 40))
	assert.ErrorIs(t, err, rsakit.ErrMalformedCiphertext)
}

func TestExportImport(t *testing.T) {
	c := newCLI(t)
	c.keygen("alice", "cafe")

	full := c.mustRun("export", "--key", "alice")
	var exported rsakit.ExportedKeyPair
	require.NoError(t, json.Unmarshal([]byte(full), &exported))
	assert.NotEmpty(t, exported.PrivateExponent)
	assert.Equal(t, rsakit.ExportVersion, exported.Version)

	public := c.mustRun("export", "--key", "alice", "--public")
	assert.NotContains(t, public, `"d"`)

	// public-only copy under a new name, read from stdin
	_, _, err := c.run(public, "import", "--name", "alice-pub")
	require.NoError(t, err)

	ciphertext := strings.TrimSpace(c.mustRun("encrypt", "--key", "alice-pub", "--message", "HELLO"))
	assert.Equal(t, "HELLO\n", c.mustRun("decrypt", "--key", "alice", "--ciphertext", ciphertext))

	_, _, err = c.run("", "decrypt", "--key", "alice-pub", "--ciphertext", ciphertext)
	assert.ErrorIs(t, err, rsakit.ErrMissingPrivateExponent)

	// full copy from a file
	fpath := filepath.Join(c.dir, "alice.json")
	require.NoError(t, os.WriteFile(fpath, []byte(full), 0o600))
	out := c.mustRun("import", "--name", "alice-copy", "--file", fpath)
	assert.Contains(t, out, exported.Fingerprint)
}

func TestImport_Invalid(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run("{not json", "import", "--name", "bad")
	assert.ErrorContains(t, err, "parse export")

	_, _, err = c.run(`{"version":2}`, "import", "--name", "bad")
	assert.ErrorIs(t, err, rsakit.ErrInvalidImportData)

	_, _, err = c.run("", "import", "--name", "bad", "--file", filepath.Join(c.dir, "missing.json"))
	assert.ErrorContains(t, err, "read export")
}

func TestListDelete(t *testing.T) {
	c := newCLI(t)
	c.keygen("bob", "01")
	c.keygen("alice", "02")

	out := c.mustRun("list")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Less(t, strings.Index(out, "alice"), strings.Index(out, "bob"))

	assert.Equal(t, "deleted bob\n", c.mustRun("delete", "--key", "bob"))
	assert.NotContains(t, c.mustRun("list"), "bob")

	_, _, err := c.run("", "delete", "--key", "bob")
	assert.ErrorIs(t, err, keystore.ErrNotFound)
}

func TestInit(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("init")
	assert.Contains(t, out, "[ok]")

	data, err := os.ReadFile(filepath.Join(c.dir, config.DefaultProfile))
	require.NoError(t, err)
	assert.Equal(t, config.TemplateProfile, string(data))

	_, _, err = c.run("", "init")
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigFile(t *testing.T) {
	c := newCLI(t)
	fpath := filepath.Join(c.dir, "custom.yaml")
	require.NoError(t, os.WriteFile(fpath, []byte("bits: 32\nexponent: 17\nparallel: false\n"), 0o600))

	out := c.mustRun("keygen", "--name", "small", "--seed", "07", "--config", fpath)
	assert.Contains(t, []string{"31", "32"}, strings.Fields(out)[1])

	// flags win over the file
	out = c.mustRun("keygen", "--name", "wide", "--seed", "07", "--config", fpath, "--bits", "48")
	assert.Contains(t, []string{"47", "48"}, strings.Fields(out)[1])

	_, _, err := c.run("", "list", "--config", filepath.Join(c.dir, "missing.yaml"))
	assert.ErrorContains(t, err, "load config")
}
