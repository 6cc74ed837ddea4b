package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio reads from stdin and writes to stdout
type Stdio struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // fd дескриптор ввода для чтения без эха, -1 если ввод не терминал
}

func NewStdio() IO {
	return newStdio(os.Stdin, os.Stdout)
}

func newStdio(in *os.File, out io.Writer) *Stdio {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &Stdio{
		in:  bufio.NewReader(in),
		out: out,
		fd:  fd,
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadPassword читает секрет без эха. Если ввод перенаправлен из файла или pipe,
// секрет читается обычной строкой.
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	if s.fd < 0 {
		return s.ReadInput(prompt)
	}
	s.Printf("%s", prompt)
	secret, err := term.ReadPassword(s.fd)
	s.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}
