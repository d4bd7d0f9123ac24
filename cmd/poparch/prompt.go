package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// prompter reads answers from the command's stdin. One prompter is created
// per command so buffered input survives across questions.
type prompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func (c *commandContext) prompter(cmd *cobra.Command) *prompter {
	return &prompter{
		in:        bufio.NewReader(cmd.InOrStdin()),
		out:       cmd.OutOrStdout(),
		assumeYes: c.assumeYes,
	}
}

func (p *prompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// confirm asks a yes/no question defaulting to no.
func (p *prompter) confirm(question string) bool {
	if p.assumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	answer, ok := p.readLine()
	if !ok {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// choose prints a numbered menu and returns the zero-based index picked.
// It returns false after printing a message when the answer is unusable;
// allowSkip adds a "0" entry that declines without an error message.
func (p *prompter) choose(header string, options []string, allowSkip bool) (int, bool) {
	fmt.Fprintln(p.out, header)
	for i, option := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, option)
	}
	if allowSkip {
		fmt.Fprintln(p.out, "  0. Skip")
	}
	fmt.Fprint(p.out, "Enter a number: ")
	answer, ok := p.readLine()
	fmt.Fprintln(p.out)
	if !ok {
		return 0, false
	}
	choice, err := strconv.Atoi(answer)
	if err != nil {
		fmt.Fprintln(p.out, "Invalid input. Please enter a number.")
		return 0, false
	}
	if allowSkip && choice == 0 {
		return 0, false
	}
	if choice < 1 || choice > len(options) {
		fmt.Fprintln(p.out, "Invalid choice. Please enter a valid number.")
		return 0, false
	}
	return choice - 1, true
}
