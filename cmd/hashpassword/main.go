// Command hashpassword prints a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/iliyamo/terrace-reservation/internal/utils"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hashpassword [-cost N]\n\n")
		fmt.Fprintf(os.Stderr, "Reads the administrator password twice and prints a line for .env.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	password := prompt("Enter password:   ")
	confirm := prompt("Confirm password: ")
	if password == "" {
		fmt.Fprintln(os.Stderr, "Password cannot be empty")
		os.Exit(1)
	}
	if password != confirm {
		fmt.Fprintln(os.Stderr, "Passwords do not match")
		os.Exit(1)
	}

	hash, err := utils.HashPassword(password, *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Single quotes keep godotenv from expanding the $ signs of the hash.
	fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
}

// prompt reads a line without echo when stdin is a terminal.
func prompt(label string) string {
	fmt.Fprint(os.Stderr, label)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var s string
		_, _ = fmt.Fscanln(os.Stdin, &s)
		return s
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}
	return string(b)
}
