/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

/// Entry is a single line of the log. Consecutive entries with the
/// same tag and detail are collapsed into one.
///
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string

	// number of times the entry was logged again in a row
	repeated int
}

func (e Entry) String() string {
	s := fmt.Sprintf("%s: %s", e.Tag, e.Detail)
	if e.repeated > 0 {
		s += fmt.Sprintf(" (repeat x%d)", e.repeated+1)
	}

	return s
}

/// Logger is an output log that can be viewed and scrolled. Once
/// full, the oldest entries are dropped.
///
type Logger struct {
	mu sync.Mutex

	// entries logged, oldest first
	entries []Entry

	// maximum number of entries kept
	max int

	// pos is the current user read position within the log
	pos int

	// echo receives a copy of every new entry
	echo io.Writer
}

// New creates a Logger that keeps at most max entries.
func New(max int) *Logger {
	return &Logger{
		entries: make([]Entry, 0, 100),
		max:     max,
	}
}

/// Log adds a new entry. Newlines are stripped from both tag and
/// detail. If the reader was at the end of the log, it stays there.
///
func (log *Logger) Log(tag, detail string) {
	log.mu.Lock()
	defer log.mu.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	scroll := log.pos == len(log.entries)

	if n := len(log.entries); n > 0 && log.entries[n-1].Tag == tag && log.entries[n-1].Detail == detail {
		log.entries[n-1].repeated++
		log.entries[n-1].Timestamp = time.Now()
	} else {
		log.entries = append(log.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
	}

	// maintain maximum length
	if len(log.entries) > log.max {
		drop := len(log.entries) - log.max

		log.entries = append(log.entries[:0], log.entries[drop:]...)
		log.pos -= drop

		if log.pos < 0 {
			log.pos = 0
		}
	}

	if scroll {
		log.pos = len(log.entries)
	}

	if log.echo != nil {
		_, _ = io.WriteString(log.echo, log.entries[len(log.entries)-1].String()+"\n")
	}
}

// Logf adds a new entry with a formatted detail.
func (log *Logger) Logf(tag, format string, args ...interface{}) {
	log.Log(tag, fmt.Sprintf(format, args...))
}

/// SetEcho mirrors every new entry to w. A nil writer turns echoing
/// off.
///
func (log *Logger) SetEcho(w io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.echo = w
}

// Clear removes all entries.
func (log *Logger) Clear() {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.entries = log.entries[:0]
	log.pos = 0
}

// Len is the number of entries.
func (log *Logger) Len() int {
	log.mu.Lock()
	defer log.mu.Unlock()

	return len(log.entries)
}

// Write every entry to w.
func (log *Logger) Write(w io.Writer) {
	log.Tail(w, log.Len())
}

/// Tail writes the most recent n entries to w. Asking for more
/// entries than exist writes them all.
///
func (log *Logger) Tail(w io.Writer, n int) {
	log.mu.Lock()
	defer log.mu.Unlock()

	if n > len(log.entries) {
		n = len(log.entries)
	}

	if n <= 0 {
		return
	}

	for _, e := range log.entries[len(log.entries)-n:] {
		_, _ = io.WriteString(w, e.String()+"\n")
	}
}

/// Window returns up to n lines ending at the read position.
///
func (log *Logger) Window(n int) []string {
	log.mu.Lock()
	defer log.mu.Unlock()

	start := log.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	end := start + n
	if end > len(log.entries) {
		end = len(log.entries)
	}

	lines := make([]string, 0, end-start)
	for _, e := range log.entries[start:end] {
		lines = append(lines, e.String())
	}

	return lines
}

// Home scrolls the log to the beginning.
func (log *Logger) Home() {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.pos = 0
}

// End scrolls the log to the end.
func (log *Logger) End() {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.pos = len(log.entries)
}

// ScrollUp scrolls the log back one position.
func (log *Logger) ScrollUp() {
	log.mu.Lock()
	defer log.mu.Unlock()

	if log.pos > 0 {
		log.pos--
	}
}

/// ScrollDown scrolls the log forward one position, never leaving
/// less than a full window above the read position.
///
func (log *Logger) ScrollDown(windowSize int) {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.pos++

	// if less than the window size, drop to it
	if log.pos < windowSize {
		log.pos = windowSize
	}

	// clamp to the end
	if log.pos > len(log.entries) {
		log.pos = len(log.entries)
	}
}
