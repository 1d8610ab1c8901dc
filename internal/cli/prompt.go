package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const secretPrompt = "Enter value for --secret (Client Secret): "

// promptSecret asks for the client secret on errOut. A terminal on in gets no
// echo, anything else is read up to the first newline.
func promptSecret(in io.Reader, errOut io.Writer) (string, error) {
	fmt.Fprint(errOut, secretPrompt)

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(errOut)
		if err != nil {
			return "", fmt.Errorf("reading client secret: %w", err)
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading client secret: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
