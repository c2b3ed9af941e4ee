package helpers

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

const (
	PasswordEnv       = "QW_WALLET_PASSWORD"
	MinPasswordLength = 8
)

// WalletPassword reads the password from QW_WALLET_PASSWORD, or prompts on the
// terminal when the variable is unset.
func WalletPassword(prompt string) ([]byte, error) {
	if v, ok := os.LookupEnv(PasswordEnv); ok {
		pw := []byte(strings.TrimRight(v, "\r\n"))
		if err := ValidatePassword(pw); err != nil {
			ZeroBytes(pw)
			return nil, err
		}
		return pw, nil
	}
	return PromptPassword(prompt)
}

func PromptPassword(prompt string) ([]byte, error) {
	pw, err := PromptSecret(prompt)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(pw); err != nil {
		ZeroBytes(pw)
		return nil, err
	}
	return pw, nil
}

// PromptSecret reads a line from the terminal without echo.
func PromptSecret(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal")
	}

	_, _ = fmt.Fprint(os.Stderr, prompt)

	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr) // best-effort newline

	if err != nil {
		ZeroBytes(b)
		return nil, errors.Wrap(err, "terminal input failed")
	}
	return b, nil
}

func ValidatePassword(pw []byte) error {
	if len(pw) < MinPasswordLength {
		return errors.Newf("password must be at least %d characters long", MinPasswordLength)
	}
	for _, b := range pw {
		if !IsAllowedPasswordChar(b) {
			return errors.New("password contains invalid characters (use letters, numbers, and special characters only)")
		}
	}
	return nil
}

// IsAllowedPasswordChar accepts printable ASCII, space excluded.
func IsAllowedPasswordChar(b byte) bool {
	return b > 0x20 && b < 0x7f
}

func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
