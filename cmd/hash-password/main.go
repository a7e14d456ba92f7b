// Command hash-password prints bcrypt digests for seeding users directly
// into the database. Passwords are read one per line from stdin so they
// stay out of shell history.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt work factor")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *cost); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run hashes every line of in and writes one digest per line to out.
// Lines that would be rejected at registration are reported and skipped;
// run fails if any line was skipped.
func run(in io.Reader, out io.Writer, cost int) error {
	hasher := auth.NewBcryptHasher(cost)
	scanner := bufio.NewScanner(in)

	var line, skipped int
	for scanner.Scan() {
		line++
		password := scanner.Text()

		if err := domain.ValidatePassword(password); err != nil {
			fmt.Fprintf(out, "line %d: %v\n", line, err)
			skipped++
			continue
		}

		digest, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := fmt.Fprintln(out, digest); err != nil {
			return fmt.Errorf("failed to write digest: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read passwords: %w", err)
	}

	if skipped > 0 {
		return fmt.Errorf("%d of %d passwords rejected", skipped, line)
	}
	return nil
}
