package dataformat

import (
	"testing"

	"github.com/retroenv/asmgen/internal/charenc"
	"github.com/retroenv/asmgen/internal/symbols"
	"github.com/retroenv/retrogolib/assert"
)

func TestAlignment(t *testing.T) {
	assert.Equal(t, 2, NewJunk(1, Align2).Alignment())
	assert.Equal(t, 256, NewJunk(10, Align256).Alignment())
	assert.Equal(t, 65536, NewJunk(10, Align65536).Alignment())
	assert.Equal(t, 0, NewJunk(10, SubTypeNone).Alignment())
	assert.Equal(t, 0, NewNumeric(1, false, Hex).Alignment())

	sub, ok := AlignmentSubType(256)
	assert.True(t, ok)
	assert.Equal(t, Align256, sub)

	_, ok = AlignmentSubType(3)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    *Descriptor
		wantErr bool
	}{
		{name: "byte", desc: NewNumeric(1, false, Hex)},
		{name: "big endian word", desc: NewNumeric(2, true, Decimal)},
		{name: "too long numeric", desc: NewNumeric(5, false, Hex), wantErr: true},
		{name: "zero length", desc: NewNumeric(0, false, Hex), wantErr: true},
		{name: "symbol", desc: NewSymbolRef(2, symbols.WeakRef{Label: "foo"})},
		{name: "symbol without ref", desc: &Descriptor{Length: 2, Type: NumericLE, SubType: Symbol}, wantErr: true},
		{name: "string", desc: NewString(4, StringGeneric, charenc.ASCII)},
		{name: "string without encoding", desc: NewString(4, StringDci, charenc.Unknown), wantErr: true},
		{name: "l16 string", desc: NewString(2, StringL16, charenc.ASCII)},
		{name: "short l16 string", desc: NewString(1, StringL16, charenc.ASCII), wantErr: true},
		{name: "binary include", desc: NewBinaryInclude(16, "data.bin")},
		{name: "binary include without name", desc: NewBinaryInclude(16, ""), wantErr: true},
		{name: "unknown type", desc: &Descriptor{Length: 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateData(t *testing.T) {
	tests := []struct {
		name    string
		desc    *Descriptor
		data    []byte
		wantErr string
	}{
		{name: "uniform fill", desc: &Descriptor{Length: 4, Type: Fill}, data: []byte{0xea, 0xea, 0xea, 0xea}},
		{name: "single byte fill", desc: &Descriptor{Length: 1, Type: Fill}, data: []byte{0x01}},
		{name: "mixed fill", desc: &Descriptor{Length: 4, Type: Fill}, data: []byte{0x01, 0x02, 0x03, 0x04},
			wantErr: "fill value $02 differs from $01 at index 1"},
		{name: "mixed dense", desc: &Descriptor{Length: 4, Type: Dense}, data: []byte{0x01, 0x02, 0x03, 0x04}},
		{name: "mixed junk", desc: NewJunk(4, Align256), data: []byte{0x01, 0x02, 0x03, 0x04}},
		{name: "length mismatch", desc: &Descriptor{Length: 2, Type: Dense}, data: []byte{0x01},
			wantErr: "covers 1 bytes instead of 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.ValidateData(tt.data)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClassification(t *testing.T) {
	assert.True(t, NewString(3, StringNullTerm, charenc.ASCII).IsString())
	assert.False(t, NewNumeric(1, false, Hex).IsString())
	assert.True(t, NewNumeric(1, true, Hex).IsNumeric())
	assert.True(t, NewSymbolRef(1, symbols.WeakRef{Label: "a"}).HasSymbol())
	assert.False(t, NewNumeric(1, false, Symbol).HasSymbol())
}
