package logger

import (
	"io"
)

// maximum number of entries in the central log
const maxCentral = 256

// the central logger used by the emulator
var central = New(maxCentral)

// Log adds an entry to the central log.
func Log(tag, detail string) {
	central.Log(tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(tag, format string, args ...interface{}) {
	central.Logf(tag, format, args...)
}

// SetEcho mirrors new central log entries to w.
func SetEcho(w io.Writer) {
	central.SetEcho(w)
}

// Clear the central log.
func Clear() {
	central.Clear()
}

// Write the central log to w.
func Write(w io.Writer) {
	central.Write(w)
}

// Tail writes the last n entries of the central log to w.
func Tail(w io.Writer, n int) {
	central.Tail(w, n)
}

// Central returns the central log, for scrolling views of it.
func Central() *Logger {
	return central
}
