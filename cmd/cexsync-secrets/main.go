// Command cexsync-secrets encrypts a venue API secret with a password so it
// can be stored on disk and referenced via encrypted_secret_path in the
// service configuration.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cexsync/cexsync/internal/crypto"
)

func main() {
	out := flag.String("out", "", "output path for the encrypted secret file")
	flag.Parse()

	if *out == "" {
		fmt.Fprintln(os.Stderr, "usage: cexsync-secrets -out <path>")
		os.Exit(2)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Fprint(os.Stderr, "API secret: ")
	secret, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "read secret: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		os.Exit(1)
	}

	blob, err := crypto.EncryptSecret(strings.TrimRight(secret, "\r\n"), strings.TrimRight(password, "\r\n"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "encrypt: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, blob, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "encrypted secret written to %s\n", *out)
}
