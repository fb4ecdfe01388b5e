// Package credentials resolves the (target, username, secret) tuple for a
// run. The secret is prompted for without echo when not supplied, and it
// must never appear in logs or on the console.
package credentials

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"
)

// Credentials is the validated identity of one run. Immutable once built;
// lifetime is the run only.
type Credentials struct {
	Target   string // IPv4 address of the managed system
	Username string
	Secret   string
}

// Resolver turns raw flag values into run credentials
type Resolver struct {
	prompt func(label string) (string, error)
}

// NewResolver creates a resolver that prompts on the controlling terminal
func NewResolver() *Resolver {
	return &Resolver{prompt: terminalPrompt}
}

// Resolve validates the target and username and prompts for the password
// when it was not given on the command line
func (r *Resolver) Resolve(target, username, password string) (*Credentials, error) {
	if err := validator.New().Var(target, "required,ipv4"); err != nil {
		return nil, fmt.Errorf("target %q is not a valid IPv4 address", target)
	}
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	if password == "" {
		secret, err := r.prompt("Password: ")
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		password = secret
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	return &Credentials{
		Target:   target,
		Username: username,
		Secret:   password,
	}, nil
}

// terminalPrompt reads a secret from the terminal without echoing it
func terminalPrompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
