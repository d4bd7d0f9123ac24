package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
	statusHighlight
)

// printer writes user-facing lines, colorized only on a terminal.
type printer struct {
	out      io.Writer
	colorize bool
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out, colorize: shouldColorize(out)}
}

func (p *printer) line(kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !p.colorize || kind == statusInfo {
		fmt.Fprintln(p.out, msg)
		return
	}
	c := statusColor(kind)
	c.EnableColor()
	c.Fprintln(p.out, msg)
}

func (p *printer) info(format string, args ...any) { p.line(statusInfo, format, args...) }
func (p *printer) ok(format string, args ...any) { p.line(statusOK, format, args...) }
func (p *printer) warn(format string, args ...any) { p.line(statusWarn, format, args...) }
func (p *printer) fail(format string, args ...any) { p.line(statusError, format, args...) }
func (p *printer) strong(format string, args ...any) { p.line(statusHighlight, format, args...) }

// block writes pre-rendered text such as a table.
func (p *printer) block(text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(p.out, text)
}

func statusColor(kind statusKind) *color.Color {
	switch kind {
	case statusOK:
		return color.New(color.FgGreen)
	case statusWarn:
		return color.New(color.FgYellow)
	case statusError:
		return color.New(color.FgRed)
	case statusHighlight:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.Reset)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
