package writer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name    string
		fields  [4]string
		options Options
		want    string
	}{
		{
			name:   "all fields",
			fields: [4]string{"start", "lda", "#$00", "; clear"},
			want:   "start   lda     #$00       ; clear\n",
		},
		{
			name:   "instruction without label",
			fields: [4]string{"", "rts", "", ""},
			want:   "        rts\n",
		},
		{
			name:   "long operand",
			fields: [4]string{"", ".byte", "$01,$02,$03,$04", "; data"},
			want:   "        .byte   $01,$02,$03,$04 ; data\n",
		},
		{
			name:   "long label in the same line",
			fields: [4]string{"long_label", "nop", "", ""},
			want:   "long_label nop\n",
		},
		{
			name:    "long label on its own line",
			fields:  [4]string{"long_label", "nop", "", ""},
			options: Options{LongLabelNewLine: true},
			want:    "long_label\n        nop\n",
		},
		{
			name:   "label only",
			fields: [4]string{"loop", "", "", ""},
			want:   "loop\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.options.ColumnWidths = [4]int{8, 8, 11, 72}
			w := New(buf, tt.options)
			w.Line(tt.fields[0], tt.fields[1], tt.fields[2], tt.fields[3])
			assert.NoError(t, w.Err())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFullLine(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, Options{ColumnWidths: [4]int{8, 8, 11, 72}})
	w.FullLine("; header")
	w.FullLine("")
	w.Line("", "nop", "", "")
	assert.Equal(t, "; header\n\n        nop\n", buf.String())
	assert.Equal(t, 3, w.Lines())
}

type failingWriter struct {
	writes int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("disk full")
}

func TestStickyError(t *testing.T) {
	out := &failingWriter{}
	w := New(out, Options{})
	w.FullLine("a")
	w.FullLine("b")
	assert.ErrorContains(t, w.Err(), "disk full")
	assert.ErrorContains(t, w.Err(), "line 1")
	assert.Equal(t, 1, out.writes)
	assert.Equal(t, 0, w.Lines())
}
