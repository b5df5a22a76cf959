// Command sign-webhook prints the X-Shopify-Hmac-Sha256 header value for a
// payload, for exercising a running receiver with curl:
//
//	SHOPIFY_WEBHOOK_SECRET=... sign-webhook -file order.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ruudy-sib/rewardhook/internal/domain"
	"github.com/ruudy-sib/rewardhook/internal/domain/service"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "sign-webhook: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("sign-webhook", flag.ContinueOnError)
	file := fs.String("file", "-", "payload file, - for stdin")
	secret := fs.String("secret", os.Getenv("SHOPIFY_WEBHOOK_SECRET"), "shared webhook secret")
	header := fs.Bool("header", false, "print a full header line instead of the bare value")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *secret == "" {
		return errors.New("secret is required (-secret or SHOPIFY_WEBHOOK_SECRET)")
	}

	body, err := readPayload(*file, stdin)
	if err != nil {
		return err
	}

	sig := service.Sign(body, *secret)
	if *header {
		_, err = fmt.Fprintf(stdout, "%s: %s\n", domain.SignatureHeader, sig)
	} else {
		_, err = fmt.Fprintln(stdout, sig)
	}
	return err
}

// readPayload returns the exact bytes to sign; no trimming, since the
// signature covers every byte.
func readPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return body, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	return body, nil
}
