// Package writer implements the column based line output of assembly files.
package writer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// column indexes.
const (
	LabelColumn = iota
	OpcodeColumn
	OperandColumn
	CommentColumn
)

// Options of the writer.
type Options struct {
	// ColumnWidths are the widths of the label, opcode, operand and comment
	// columns.
	ColumnWidths [4]int
	// LongLabelNewLine puts labels that do not fit into the label column on
	// their own line.
	LongLabelNewLine bool
}

// Writer writes lines that consist of a label, an opcode, an operand and a
// comment field. The first write error is kept and all following writes are
// ignored, it is returned by Err.
type Writer struct {
	out     io.Writer
	options Options

	err   error
	lines int
}

// New creates a new writer.
func New(out io.Writer, options Options) *Writer {
	return &Writer{
		out:     out,
		options: options,
	}
}

// Line writes a line of up to four fields, empty fields are skipped.
func (w *Writer) Line(label, opcode, operand, comment string) {
	if label != "" && opcode != "" && w.options.LongLabelNewLine &&
		utf8.RuneCountInString(label) >= w.options.ColumnWidths[LabelColumn] {

		w.Line(label, "", "", "")
		label = ""
	}

	var buf strings.Builder
	column := 0
	for i, field := range [...]string{label, opcode, operand, comment} {
		if field == "" {
			continue
		}
		start := w.columnStart(i)
		switch {
		case column < start:
			buf.WriteString(strings.Repeat(" ", start-column))
			column = start
		case column > 0:
			buf.WriteByte(' ')
			column++
		}
		buf.WriteString(field)
		column += utf8.RuneCountInString(field)
	}
	w.write(buf.String())
}

// FullLine writes a line without column formatting, for example a comment
// or an empty line.
func (w *Writer) FullLine(text string) {
	w.write(text)
}

// Err returns the first error that occurred while writing.
func (w *Writer) Err() error {
	return w.err
}

// Lines returns the number of written lines.
func (w *Writer) Lines() int {
	return w.lines
}

func (w *Writer) columnStart(column int) int {
	start := 0
	for i := range column {
		start += w.options.ColumnWidths[i]
	}
	return start
}

func (w *Writer) write(line string) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintln(w.out, strings.TrimRight(line, " ")); err != nil {
		w.err = fmt.Errorf("writing line %d: %w", w.lines+1, err)
		return
	}
	w.lines++
}
