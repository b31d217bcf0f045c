// Command hashkey mints API keys for out-of-band issuance. It prints the key
// to hand to the client and the bcrypt hash to append to API_KEY_HASHES.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"edge-tickets/internal/apikey"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hashkey:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("hashkey", flag.ContinueOnError)
	fs.SetOutput(stdout)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	fromStdin := fs.Bool("stdin", false, "hash a key read from stdin instead of generating one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var key string
	if *fromStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read key: %w", err)
		}
		key = strings.TrimSpace(line)
	} else {
		generated, err := apikey.Generate()
		if err != nil {
			return err
		}
		key = generated
	}

	hash, err := apikey.HashKey(key, *cost)
	if err != nil {
		return err
	}

	if !*fromStdin {
		fmt.Fprintf(stdout, "key:  %s\n", key)
	}
	fmt.Fprintf(stdout, "hash: %s\n", hash)
	return nil
}
