package generator

import (
	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/formatter"
)

// DataOps names the data pseudo ops of an assembler.
type DataOps struct {
	// Define contains the little endian define directives indexed by
	// length, an empty entry means the length is not supported.
	Define [5]string
	// DefineBig contains the big endian define directives.
	DefineBig [5]string
	// Fill writes a count and a value.
	Fill string
	// Dense writes continuous hex digits, bytes are written as list of
	// values with Define[1] if it is empty.
	Dense string
	// Align returns the opcode and operand of an alignment directive, it
	// returns false if the alignment can not be expressed.
	Align func(alignment, value int) (string, string, bool)
}

// DataValue decodes the value of a numeric item.
func (b *Base) DataValue(offset, length int, bigEndian bool) int {
	data := b.Project.FileData[offset : offset+length]
	value := 0
	for i := range length {
		if bigEndian {
			value = value<<8 | int(data[i])
		} else {
			value = value<<8 | int(data[length-1-i])
		}
	}
	return value
}

// OutputNumericData writes a numeric data item. Big endian values that the
// assembler has no directive for are written as single bytes.
func (b *Base) OutputNumericData(offset int, ops *DataOps) {
	attr := &b.Project.Attribs[offset]
	desc := attr.DataDescriptor
	length := desc.Length
	bigEndian := desc.Type == dataformat.NumericBE

	opcode := ops.Define[length]
	if bigEndian && length > 1 {
		opcode = ops.DefineBig[length]
	}
	if opcode == "" {
		b.OutputByteList(offset, length, ops)
		return
	}

	value := b.DataValue(offset, length, bigEndian)
	operand := b.FormatOperandValue(offset, desc, value, length, 0)
	b.OutputLine(b.LabelAt(offset), b.Formatter.FormatPseudoOp(opcode), operand, b.CommentAt(offset, length))
}

// OutputByteList writes bytes as lists of hex values.
func (b *Base) OutputByteList(offset, length int, ops *DataOps) {
	perLine := max((b.Formatter.MaxOperandLen()+1)/4, 1)
	data := b.Project.FileData[offset : offset+length]

	var operands []string
	for start := 0; start < length; start += perLine {
		end := min(start+perLine, length)
		operands = append(operands, b.Formatter.FormatByteList(data[start:end]))
	}
	b.OutputItemLines(offset, length, b.Formatter.FormatPseudoOp(ops.Define[1]), operands)
}

// OutputDenseData writes bytes as dense hex data. Runs of a single value are
// written as fill.
func (b *Base) OutputDenseData(offset, length int, ops *DataOps) {
	if value, ok := b.singleValue(offset, length); ok && length > 1 {
		b.OutputFillData(offset, length, value, ops)
		return
	}
	if ops.Dense == "" {
		b.OutputByteList(offset, length, ops)
		return
	}

	perLine := max(b.Formatter.MaxOperandLen()/2, 1)
	data := b.Project.FileData[offset : offset+length]

	var operands []string
	for start := 0; start < length; start += perLine {
		end := min(start+perLine, length)
		operands = append(operands, b.Formatter.FormatDenseHex(data[start:end]))
	}
	b.OutputItemLines(offset, length, b.Formatter.FormatPseudoOp(ops.Dense), operands)
}

// OutputFillData writes a fill directive.
func (b *Base) OutputFillData(offset, length, value int, ops *DataOps) {
	f := b.Formatter
	operand := f.FormatDecimalValue(length) + "," + f.FormatHexValue(value, 2)
	b.OutputLine(b.LabelAt(offset), f.FormatPseudoOp(ops.Fill), operand, b.CommentAt(offset, length))
}

// OutputJunkData writes junk data. If the data pads to an alignment
// boundary with a single value, an alignment directive is used.
func (b *Base) OutputJunkData(offset int, ops *DataOps) {
	attr := &b.Project.Attribs[offset]
	desc := attr.DataDescriptor
	length := desc.Length

	value, single := b.singleValue(offset, length)
	alignment := desc.Alignment()
	if single && alignment > 0 && ops.Align != nil && isAlignmentPadding(attr.Address, length, alignment) {
		if opcode, operand, ok := ops.Align(alignment, value); ok {
			b.OutputLine(b.LabelAt(offset), b.Formatter.FormatPseudoOp(opcode), operand, b.CommentAt(offset, length))
			return
		}
	}
	b.OutputDenseData(offset, length, ops)
}

// OutputFormattedData dispatches the data types that are written the same
// way by all assemblers. It returns false for types that the generator has
// to handle itself.
func (b *Base) OutputFormattedData(offset int, ops *DataOps) (bool, error) {
	attr := &b.Project.Attribs[offset]
	desc := attr.DataDescriptor

	switch desc.Type {
	case dataformat.NumericLE, dataformat.NumericBE:
		b.OutputNumericData(offset, ops)
	case dataformat.Fill:
		value, ok := b.singleValue(offset, desc.Length)
		if !ok {
			return false, fmt.Errorf("%w: fill at +%06x covers different byte values", ErrInternal, offset)
		}
		b.OutputFillData(offset, desc.Length, value, ops)
	case dataformat.Dense, dataformat.BinaryInclude:
		b.OutputDenseData(offset, desc.Length, ops)
	case dataformat.Junk:
		b.OutputJunkData(offset, ops)
	default:
		return false, nil
	}
	return true, nil
}

// StringDirective describes a specialized string pseudo op.
type StringDirective struct {
	Opcode string
	Mode   formatter.FeedMode
	// Leading and Trailing are the number of bytes at the start and the end
	// of the item that the assembler generates by itself.
	Leading  int
	Trailing int
	// AllowRaw permits bytes without character representation in the
	// operand.
	AllowRaw bool
}

// OutputStringDirective writes a string item with a specialized directive.
// It returns false without writing anything if the string needs more than a
// single line or contains bytes the directive can not express.
func (b *Base) OutputStringDirective(offset int, sof *formatter.StringOpFormatter, dir StringDirective) bool {
	desc := b.Project.Attribs[offset].DataDescriptor
	length := desc.Length
	if !b.stringLayoutValid(offset, desc) {
		return false
	}

	sof.Reset()
	sof.FeedBytes(b.Project.FileData, offset+dir.Leading, length-dir.Leading-dir.Trailing, 0, dir.Mode)
	sof.Finish()
	if len(sof.Lines) != 1 || sof.HasRawBytes && !dir.AllowRaw {
		return false
	}

	b.selectEncoding(desc)
	b.OutputLine(b.LabelAt(offset), b.Formatter.FormatPseudoOp(dir.Opcode), sof.Lines[0], b.CommentAt(offset, length))
	return true
}

// OutputGenericString writes all bytes of a string item with the generic
// string directive, using as many lines as needed.
func (b *Base) OutputGenericString(offset int, sof *formatter.StringOpFormatter, opcode string) {
	desc := b.Project.Attribs[offset].DataDescriptor
	sof.Reset()
	sof.FeedBytes(b.Project.FileData, offset, desc.Length, 0, formatter.FeedNormal)
	sof.Finish()

	b.selectEncoding(desc)
	b.OutputItemLines(offset, desc.Length, b.Formatter.FormatPseudoOp(opcode), sof.Lines)
}

// stringLayoutValid checks that the terminator, length prefix or high bit
// marker of a string item matches its data.
func (b *Base) stringLayoutValid(offset int, desc *dataformat.Descriptor) bool {
	data := b.Project.FileData[offset : offset+desc.Length]
	last := len(data) - 1

	switch desc.Type {
	case dataformat.StringNullTerm:
		for i, v := range data {
			if (v == 0) != (i == last) {
				return false
			}
		}
	case dataformat.StringL8:
		return int(data[0]) == len(data)-1
	case dataformat.StringL16:
		return len(data) >= 2 && int(data[0])|int(data[1])<<8 == len(data)-2
	case dataformat.StringDci:
		for _, v := range data[:last] {
			if v&0x80 != data[0]&0x80 {
				return false
			}
		}
		return last == 0 || data[last]&0x80 != data[0]&0x80
	}
	return true
}

func (b *Base) selectEncoding(desc *dataformat.Descriptor) {
	if b.SelectEncoding != nil {
		b.SelectEncoding(desc.Encoding)
	}
}

// NewStringFormatter returns a string operand formatter for an encoding.
func (b *Base) NewStringFormatter(delim formatter.Delimiter, style formatter.RawDataStyle,
	desc *dataformat.Descriptor) *formatter.StringOpFormatter {

	return formatter.NewStringOpFormatter(b.Formatter, delim, style, desc.Encoding.Converter())
}

// singleValue returns the value of a range that consists of a single
// repeated byte.
func (b *Base) singleValue(offset, length int) (int, bool) {
	data := b.Project.FileData[offset : offset+length]
	for _, v := range data[1:] {
		if v != data[0] {
			return 0, false
		}
	}
	return int(data[0]), true
}

// isAlignmentPadding returns whether the range ends at an alignment boundary
// and is shorter than the alignment.
func isAlignmentPadding(address, length, alignment int) bool {
	if address == addrmap.NonAddressable {
		return false
	}
	end := address + length
	return end%alignment == 0 && length < alignment
}
