// Command hash-generator prints bcrypt hashes in the format stored in
// users.hashed_password, for seeding accounts directly in the database.
//
// Passwords are read one per line from stdin:
//
//	echo 'correct horse battery' | go run ./cmd/hash-generator -cost 12
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskprefs-api/internal/domain"
	"github.com/phrazzld/taskprefs-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if err := generate(os.Stdin, os.Stdout, *cost); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

// generate writes one hash per input line. Lines that fail password
// validation are reported and skipped.
func generate(in io.Reader, out io.Writer, cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	verifier := auth.NewBcryptVerifier(cost)

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		password := scanner.Text()
		if err := domain.ValidatePassword(password); err != nil {
			fmt.Fprintf(out, "line %d: %v\n", line, err)
			continue
		}

		hash, err := verifier.Hash(password)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		fmt.Fprintln(out, hash)
	}
	return scanner.Err()
}
