package client

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// SecretEnv names the environment variable that supplies the secret for
// non-interactive use.
const SecretEnv = "ZAKAT_KEEPER_SECRET"

var (
	errNotATerminal     = errors.New("stdin is not a terminal, set " + SecretEnv)
	errEmptySecret      = errors.New("secret cannot be empty")
	errSecretsDontMatch = errors.New("secrets do not match")
)

// PromptSecret reads a secret from the terminal with echo disabled.
func PromptSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNotATerminal
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}

// readSecret returns the secret from the environment or asks for it. With
// confirm set a prompted secret has to be typed twice.
func (a *App) readSecret(confirm bool) (string, error) {
	if secret := os.Getenv(SecretEnv); secret != "" {
		return secret, nil
	}

	secret, err := a.secretReader("Secret: ")
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", errEmptySecret
	}
	if !confirm {
		return secret, nil
	}

	again, err := a.secretReader("Confirm secret: ")
	if err != nil {
		return "", err
	}
	if again != secret {
		return "", errSecretsDontMatch
	}
	return secret, nil
}
