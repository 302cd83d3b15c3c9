//go:build !headless

package main

import (
	"io"
	"os"

	"github.com/sqweek/dialog"
)

// Log writer implementation
func NewLogWriter() io.Writer {
	return os.Stderr
}

// Message box implementation
func ShowErrorDialog(message string) {
	dialog.Message("%s", message).Title("Lanes-GO Error").Error()
}
