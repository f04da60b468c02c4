package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// lineReader reads user input one line at a time. On a terminal it switches
// to raw mode for cursor movement and word editing; otherwise it falls back
// to plain buffered reads so piped input works.
type lineReader struct {
	interactive bool
	buf         *bufio.Reader
}

func newLineReader() *lineReader {
	return &lineReader{
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		buf:         bufio.NewReader(os.Stdin),
	}
}

// Read prints the prompt and returns one line of input without the trailing
// newline. It returns io.EOF when the user hits Ctrl+C, Ctrl+D on an empty
// line, or the input stream ends.
func (lr *lineReader) Read(prompt string) (string, error) {
	if !lr.interactive {
		fmt.Print(prompt)

		line, err := lr.buf.ReadString('\n')
		if err != nil {
			if err == io.EOF && line != "" {
				return strings.TrimRight(line, "\r\n"), nil
			}
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	return readLineRaw(prompt)
}

// readLineRaw reads a line in raw terminal mode with support for cursor
// movement and word editing.
func readLineRaw(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	fmt.Print(prompt)

	var line []rune
	cursor := 0

	for {
		b, err := readByte()
		if err != nil {
			return "", err
		}

		switch {
		case b == 3: // Ctrl+C
			return "", io.EOF
		case b == 4: // Ctrl+D
			if len(line) == 0 {
				return "", io.EOF
			}
		case b == 13 || b == 10: // Enter
			fmt.Println()
			return string(line), nil
		case b == 127 || b == 8: // Backspace
			if cursor > 0 {
				line = append(line[:cursor-1], line[cursor:]...)
				cursor--
				redrawLine(prompt, line, cursor)
			}
		case b == 23: // Ctrl+W
			if cursor > 0 {
				line, cursor = deleteWordBackward(line, cursor)
				redrawLine(prompt, line, cursor)
			}
		case b == 27: // Escape sequence
			line, cursor, err = handleEscape(prompt, line, cursor)
			if err != nil {
				return "", err
			}
		case b >= 32 && b <= 126: // Printable ASCII
			line = append(line[:cursor], append([]rune{rune(b)}, line[cursor:]...)...)
			cursor++
			redrawLine(prompt, line, cursor)
		}
	}
}

// handleEscape consumes one escape sequence and applies cursor movement or
// word editing.
func handleEscape(prompt string, line []rune, cursor int) ([]rune, int, error) {
	b, err := readByte()
	if err != nil {
		return line, cursor, err
	}

	switch b {
	case '[':
		params, final, err := readCSI()
		if err != nil {
			return line, cursor, err
		}

		wordJump := params == "1;5" || params == "1;3" // Ctrl or Alt modifier

		switch final {
		case 'D': // Left
			if wordJump {
				cursor = moveCursorWordLeft(line, cursor)
			} else if cursor > 0 {
				cursor--
			}
			redrawLine(prompt, line, cursor)
		case 'C': // Right
			if wordJump {
				cursor = moveCursorWordRight(line, cursor)
			} else if cursor < len(line) {
				cursor++
			}
			redrawLine(prompt, line, cursor)
		}
	case 'b': // Alt+Left (ESC b, macOS Terminal)
		cursor = moveCursorWordLeft(line, cursor)
		redrawLine(prompt, line, cursor)
	case 'f': // Alt+Right (ESC f)
		cursor = moveCursorWordRight(line, cursor)
		redrawLine(prompt, line, cursor)
	case 127: // Alt+Backspace
		if cursor > 0 {
			line, cursor = deleteWordBackward(line, cursor)
			redrawLine(prompt, line, cursor)
		}
	}

	return line, cursor, nil
}

// readCSI reads the parameter bytes and final byte of a CSI sequence.
func readCSI() (params string, final byte, err error) {
	var seq []byte

	for {
		b, err := readByte()
		if err != nil {
			return "", 0, err
		}

		if b >= 64 && b <= 126 {
			return string(seq), b, nil
		}

		seq = append(seq, b)
	}
}

func readByte() (byte, error) {
	var buf [1]byte

	for {
		n, err := os.Stdin.Read(buf[:])
		if err != nil {
			return 0, err
		}

		if n > 0 {
			return buf[0], nil
		}
	}
}

// redrawLine clears the current line and reprints the prompt and line with
// the cursor positioned.
func redrawLine(prompt string, line []rune, cursor int) {
	fmt.Printf("\r\033[K%s%s", prompt, string(line))
	if cursor < len(line) {
		fmt.Printf("\033[%dD", len(line)-cursor)
	}
}
