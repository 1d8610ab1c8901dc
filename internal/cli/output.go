package cli

import (
	"fmt"
	"io"
)

// WriteExport writes the shell statement that puts the token in $BEARER.
func WriteExport(w io.Writer, accessToken string) error {
	_, err := fmt.Fprintf(w, "export BEARER=\"Bearer %s\"\n", accessToken)
	return err
}
