package formatter

import (
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/symbols"
)

// OperandFlags modify the formatting of a numeric operand.
type OperandFlags uint8

// operand flags.
const (
	// OperandPCRelative marks branch targets, the value is the full target
	// address.
	OperandPCRelative OperandFlags = 1 << iota
	// OperandAbsolutePBR marks 16 bit operands that are relative to the
	// program bank, the value includes the bank.
	OperandAbsolutePBR
)

// SymbolResolver looks up the symbol that a weak reference names.
type SymbolResolver func(ref *symbols.WeakRef) (*symbols.Symbol, bool)

// FormatNumericOperand formats an operand value according to its format
// descriptor. Symbol references that can not be resolved fall back to hex.
func (f *Formatter) FormatNumericOperand(desc *dataformat.Descriptor, value, operandLen int,
	resolve SymbolResolver, labelMap map[string]string, flags OperandFlags) string {

	if desc != nil {
		switch desc.SubType {
		case dataformat.Decimal:
			return f.FormatDecimalValue(value)
		case dataformat.Binary:
			return f.FormatBinaryValue(value, operandLen*8)
		case dataformat.Ascii:
			if operandLen == 1 {
				return f.FormatCharOrHex(value, desc.Encoding)
			}
		case dataformat.Symbol:
			if desc.SymbolRef != nil && resolve != nil {
				if sym, ok := resolve(desc.SymbolRef); ok {
					return f.FormatSymbol(sym, *desc.SymbolRef, value, operandLen, labelMap, flags)
				}
			}
		}
	}

	if flags&(OperandPCRelative|OperandAbsolutePBR) != 0 {
		return f.FormatAddress(value)
	}
	return f.FormatHexValue(value, operandLen*2)
}

// FormatSymbol formats a symbolic operand. If the value does not match the
// selected part of the symbol value exactly, an adjustment is added. Parts
// and values that exceed the operand width are selected or masked in the
// expression syntax of the assembler.
func (f *Formatter) FormatSymbol(sym *symbols.Symbol, ref symbols.WeakRef, value, operandLen int,
	labelMap map[string]string, flags OperandFlags) string {

	label := sym.Label
	if mapped, ok := labelMap[label]; ok {
		label = mapped
	}
	if ref.IsVariable || sym.Source == symbols.SourceVariable {
		label = f.FormatVariableLabel(label)
	}

	if flags&(OperandPCRelative|OperandAbsolutePBR) != 0 {
		return label + f.FormatAdjustment(value-sym.Value)
	}

	shift, selector := 0, f.cfg.LowSelector
	switch ref.Part {
	case symbols.PartHigh:
		shift, selector = 8, f.cfg.HighSelector
	case symbols.PartBank:
		shift, selector = 16, f.cfg.BankSelector
	}

	bits := 8 * operandLen
	mask := 1<<bits - 1
	// keep the symbol bits outside of the operand window so that the
	// adjustment is as small as possible
	low := sym.Value & (1<<shift - 1)
	high := sym.Value >> (shift + bits) << (shift + bits)
	target := high | (value&mask)<<shift | low
	adjustment := target - sym.Value

	expr := label + f.FormatAdjustment(adjustment)
	if shift == 0 && target <= mask {
		return expr
	}

	if operandLen == 1 || f.cfg.ExpressionMode == ExprMerlin {
		return f.selectPart(selector, expr, adjustment != 0, shift, operandLen)
	}

	if adjustment != 0 {
		expr = "(" + expr + ")"
	}
	if shift > 0 {
		return expr + " >> " + f.FormatDecimalValue(shift)
	}
	return expr + " & " + f.FormatHexValue(mask, bits/4)
}

// selectPart applies a byte selector operator to an expression.
func (f *Formatter) selectPart(selector, expr string, adjusted bool, shift, operandLen int) string {
	switch f.cfg.ExpressionMode {
	case ExprCc65:
		if adjusted {
			return selector + "(" + expr + ")"
		}
		return selector + expr

	case ExprMerlin:
		if shift == 0 && operandLen > 1 {
			return expr + "&" + f.FormatHexValue(1<<(8*operandLen)-1, 2*operandLen)
		}
		return selector + expr

	default:
		return selector + expr
	}
}
