package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type mode string

const (
	modeAsk    mode = "ask"
	modeYes    mode = "yes"
	modeNo     mode = "no"
	modeAlways mode = "always"
)

func parseMode(flagName, s string, allowed ...mode) (mode, error) {
	m := mode(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if m == a {
			return m, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("-%s must be one of %s, got %q", flagName, strings.Join(names, "|"), s)
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// confirm resolves m; modeAsk reads a y/n answer. EOF or anything but y/yes
// counts as no.
func (p *prompter) confirm(m mode, question string) bool {
	switch m {
	case modeYes, modeAlways:
		return true
	case modeNo:
		return false
	}
	fmt.Fprintf(p.out, "\n%s (y/n): ", question)
	line, _ := p.in.ReadString('\n')
	ans := strings.ToLower(strings.TrimSpace(line))
	return ans == "y" || ans == "yes"
}
