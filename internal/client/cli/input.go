package cli

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/sanitizer/internal/common"
)

// readPassword reads from the terminal without echo; replaced in tests.
var readPassword = term.ReadPassword

var (
	errEmptySecret    = errors.New("secret must not be empty")
	errSecretMismatch = errors.New("secrets do not match")
)

// readLine returns the next line without its line ending. A last line with
// no newline is returned as is; io.EOF is reported only when nothing was read.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptLine writes "label: " to w and returns the trimmed reply.
func PromptLine(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptSecret reads a secret from the terminal without echo. The caller
// wipes the returned slice.
func PromptSecret(w io.Writer, label string) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", label)
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, errEmptySecret
	}
	return secret, nil
}

// promptNewSecret asks for a secret twice and returns it only when both
// entries match.
func promptNewSecret(w io.Writer, label string) ([]byte, error) {
	secret, err := getPassword(w, label)
	if err != nil {
		return nil, err
	}
	again, err := getPassword(w, "Repeat secret")
	if err != nil {
		common.WipeByteArray(secret)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if subtle.ConstantTimeCompare(secret, again) != 1 {
		common.WipeByteArray(secret)
		return nil, errSecretMismatch
	}
	return secret, nil
}
