// issue-token выпускает PASETO-токен участника для ручной проверки API.
//
//	FOODORDER_TOKEN_KEY=<hex> issue-token -user user-1 -address "12 Baker Street"
//	issue-token -user admin-1 -admin
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/foodorder/internal/auth"
	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

const envTokenKey = "FOODORDER_TOKEN_KEY"

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	var (
		principal domain.Principal
		key       string
		ttl       time.Duration
	)
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&principal.ID, "user", "", "user id (required)")
	fs.BoolVar(&principal.IsAdmin, "admin", false, "issue an admin token")
	fs.StringVar(&principal.Address, "address", "", "default delivery address")
	fs.StringVar(&key, "key", "", "hex token key (fallback: "+envTokenKey+")")
	fs.DurationVar(&ttl, "ttl", auth.DefaultTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	principal.ID = strings.TrimSpace(principal.ID)
	if principal.ID == "" {
		return errors.New("-user is required")
	}
	if key = strings.TrimSpace(key); key == "" {
		key = strings.TrimSpace(getenv(envTokenKey))
	}

	tokens, err := auth.NewTokenService(key, ttl)
	if err != nil {
		return err
	}
	token, err := tokens.Issue(principal)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	if key == "" {
		// Без ключа токен подписан случайным ключом; печатаем его, чтобы сервис можно было запустить с ним.
		_, _ = fmt.Fprintf(stderr, "%s=%s\n", envTokenKey, tokens.KeyHex())
	}
	_, _ = fmt.Fprintln(stdout, token)
	return nil
}
