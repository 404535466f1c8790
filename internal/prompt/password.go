// Package prompt reads secrets from the user.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Password writes label to out and reads one line from in without echo when in
// is a terminal.
func Password(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	password, err := readPassword(in)
	fmt.Fprintln(out) // Print newline after password input
	return password, err
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
