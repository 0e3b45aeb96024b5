package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrBox displays the most recent error, or a short notice, on a single line.
type ErrBox struct {
	height, width int
	err           error
	notice        string
}

func NewErrBox() *ErrBox {
	return &ErrBox{}
}

func (e *ErrBox) SetError(err error) {
	e.err = err
	e.notice = ""
}

// SetNotice shows a non-error message in place of the error.
func (e *ErrBox) SetNotice(msg string) {
	e.err = nil
	e.notice = msg
}

func (e *ErrBox) Clear() {
	e.err = nil
	e.notice = ""
}

func (e *ErrBox) SetSize(width, height int) {
	e.width = width
	e.height = height
}

func oneLine(msg string, width int) string {
	return truncate(strings.Join(strings.Fields(msg), " "), width)
}

func (e *ErrBox) String() string {
	var text string
	switch {
	case e.err != nil:
		text = errorTextStyle.Render(oneLine(e.err.Error(), e.width))
	case e.notice != "":
		text = successTextStyle.Render(oneLine(e.notice, e.width))
	}
	return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Center, text)
}
