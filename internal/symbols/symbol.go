package symbols

import (
	"fmt"
	"regexp"
	"strings"
)

// Source defines where a symbol was defined.
type Source uint8

// symbol sources.
const (
	SourceUnknown Source = iota
	SourceUser           // label set by the user
	SourceAuto           // label generated for a referenced address
	SourceProject        // project wide equate
	SourcePlatform       // equate from a platform definition
	SourceVariable       // local variable
)

// Type defines how a symbol is used.
type Type uint8

// symbol types.
const (
	TypeUnknown        Type = iota
	LocalOrGlobalAddr       // address label that may be emitted as local label
	GlobalAddr              // address label that must stay global
	NonUniqueLocalAddr      // local label whose name may be used multiple times
	ExternalAddr            // address outside of the file
	Constant                // constant value
)

// UniqueTagPrefix separates the label of a non-unique symbol from the tag that
// makes it unique in the symbol table.
const UniqueTagPrefix = "§"

// Symbol is a label with the value it denotes.
type Symbol struct {
	Label  string
	Value  int
	Source Source
	Type   Type
}

// CanBeLocal returns whether the symbol may be emitted as assembler local
// label.
func (s *Symbol) CanBeLocal() bool {
	return s.Type == LocalOrGlobalAddr || s.Type == NonUniqueLocalAddr
}

// IsNonUnique returns whether the label carries a uniqueness tag.
func (s *Symbol) IsNonUnique() bool {
	return s.Type == NonUniqueLocalAddr
}

// IsConstant returns whether the symbol is a constant instead of an address.
func (s *Symbol) IsConstant() bool {
	return s.Type == Constant
}

// LabelWithoutTag returns the label with a uniqueness tag removed.
func (s *Symbol) LabelWithoutTag() string {
	return TrimTag(s.Label)
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s=$%x", s.Label, s.Value)
}

// TrimTag removes the uniqueness tag from a label.
func TrimTag(label string) string {
	if idx := strings.Index(label, UniqueTagPrefix); idx >= 0 {
		return label[:idx]
	}
	return label
}

// TagLabel returns a non-unique label tagged with the given unique id.
func TagLabel(label string, id int) string {
	return fmt.Sprintf("%s%s%04d", label, UniqueTagPrefix, id)
}

// DefSymbol is a symbol defined by an equate directive or a local variable
// table entry.
type DefSymbol struct {
	Symbol

	Width   int    // size in bytes of the referenced memory
	Radix   int    // 16, 10 or 2 for displaying the value
	Comment string // end of line comment
}

// NewConstant returns a new definition symbol for a constant.
func NewConstant(label string, value int, source Source) *DefSymbol {
	return &DefSymbol{
		Symbol: Symbol{Label: label, Value: value, Source: source, Type: Constant},
		Width:  1,
		Radix:  16,
	}
}

// NewExternalAddress returns a new definition symbol for an address outside
// of the file.
func NewExternalAddress(label string, address, width int, source Source) *DefSymbol {
	return &DefSymbol{
		Symbol: Symbol{Label: label, Value: address, Source: source, Type: ExternalAddr},
		Width:  width,
		Radix:  16,
	}
}

// NewVariable returns a new local variable at a direct page or stack address.
func NewVariable(label string, value, width int) *DefSymbol {
	return &DefSymbol{
		Symbol: Symbol{Label: label, Value: value, Source: SourceVariable, Type: ExternalAddr},
		Width:  width,
		Radix:  16,
	}
}

// Part selects a part of a multi byte value.
type Part uint8

// value parts.
const (
	PartLow Part = iota
	PartHigh
	PartBank
)

// WeakRef is a reference to a symbol by name. The symbol may not exist, in
// that case the operand is formatted numerically.
type WeakRef struct {
	Label      string
	Part       Part
	IsVariable bool
}

var labelRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidLabel returns whether the label can be used by all supported
// assemblers. Non-unique labels are checked without their tag.
func IsValidLabel(label string) bool {
	return labelRegexp.MatchString(TrimTag(label))
}
