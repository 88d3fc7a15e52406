package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/artistpage/internal/shared"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine reads a single line from reader, trimming the newline.
// A final line without a newline is still returned.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword prints prompt to w and reads a password without echo.
func promptPassword(w io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", fmt.Errorf("%w: stdin is not a terminal; pass --password-stdin", shared.ErrMissingArgument)
	}

	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// password reads the password either from the first stdin line or from an interactive prompt.
// With confirm set, the interactive prompt asks twice.
func (r *Runner) password(fromStdin, confirm bool) (string, error) {
	if fromStdin {
		pw, err := readLine(bufio.NewReader(r.input))
		if err != nil {
			return "", fmt.Errorf("%w: no password on stdin", shared.ErrMissingArgument)
		}
		if pw == "" {
			return "", fmt.Errorf("%w: password is empty", shared.ErrMissingArgument)
		}
		return pw, nil
	}

	pw, err := promptPassword(r.output, "Password: ")
	if err != nil {
		return "", err
	}
	if !confirm {
		return pw, nil
	}

	again, err := promptPassword(r.output, "Confirm password: ")
	if err != nil {
		return "", err
	}
	if again != pw {
		return "", fmt.Errorf("%w: passwords do not match", shared.ErrValidation)
	}
	return pw, nil
}

// confirm asks a yes/no question on the runner's input. Anything but y or yes is no.
func (r *Runner) confirm(question string) (bool, error) {
	if err := r.writePlain("%s [y/N]: ", question); err != nil {
		return false, err
	}

	answer, err := readLine(bufio.NewReader(r.input))
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
