//go:build headless

package main

import (
	"fmt"
	"io"
	"os"
)

func NewLogWriter() io.Writer {
	return os.Stderr
}

// Message box implementation
func ShowErrorDialog(message string) {
	fmt.Fprintf(os.Stderr, "Lanes-GO Error\n\n%s\n", message)
}
