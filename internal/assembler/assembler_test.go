package assembler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		want    ID
		wantErr bool
	}{
		{name: "64tass", want: Tass64},
		{name: "ACME", want: Acme},
		{name: " cc65 ", want: Cc65},
		{name: "merlin32", want: Merlin32},
		{name: "asm6", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.name)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported assembler")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		id     ID
		output string
		want   Version
	}{
		{Tass64, "64tass Turbo Assembler Macro V1.53.1515", NewVersion(1, 53, 1515)},
		{Acme, `This is ACME, release 0.96.4 ("Fenchurch"), 22 Dec 2017`, NewVersion(0, 96, 4)},
		{Acme, "This is ACME, release 0.97 (\"Zem\")", NewVersion(0, 97, 0)},
		{Cc65, "cl65 V2.17 - Git N/A", NewVersion(2, 17, 0)},
		{Merlin32, "Merlin32 v 1.0, (c) Brutal Deluxe 2011-2015", NewVersion(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			info, ok := Lookup(tt.id)
			assert.True(t, ok)
			version, err := info.ParseVersion(tt.output)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, version)
		})
	}

	info, _ := Lookup(Tass64)
	_, err := info.ParseVersion("command not found")
	assert.Error(t, err)
}

func TestVersionCompare(t *testing.T) {
	v := NewVersion(1, 55, 2200)
	assert.True(t, v.AtLeast(1, 55, 0))
	assert.True(t, v.AtLeast(1, 54, 9999))
	assert.False(t, v.AtLeast(1, 56, 0))
	assert.False(t, v.AtLeast(2, 0, 0))
	assert.Equal(t, 0, v.Compare(NewVersion(1, 55, 2200)))

	var unknown Version
	assert.True(t, unknown.IsZero())
	assert.True(t, unknown.AtLeast(99, 0, 0))
	assert.Equal(t, "unknown", unknown.String())
	assert.Equal(t, "1.55.2200", v.String())
}

func TestQuirks(t *testing.T) {
	assert.True(t, Cc65.Quirks(NewVersion(2, 17, 0)).BlockMoveArgsReversed)
	assert.False(t, Cc65.Quirks(NewVersion(2, 18, 0)).BlockMoveArgsReversed)
	assert.True(t, Merlin32.Quirks(Version{}).TracksSepRepNotEmu)
	assert.True(t, Tass64.Quirks(Version{}).StackIntOperandIsImmediate)
	assert.Equal(t, Quirks{}, Unknown.Quirks(Version{}))
}

func TestVersionCache(t *testing.T) {
	var calls atomic.Int32
	cache := NewVersionCache(func(_ context.Context, info Info) (string, error) {
		calls.Add(1)
		switch info.ID {
		case Acme:
			return "This is ACME, release 0.97 (\"Zem\")", nil
		default:
			return "", errors.New("not installed")
		}
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			version, err := cache.Get(ctx, Acme)
			assert.NoError(t, err)
			assert.Equal(t, NewVersion(0, 97, 0), version)
		}()
	}
	wg.Wait()

	_, err := cache.Get(ctx, Cc65)
	assert.ErrorContains(t, err, "not installed")
	_, err = cache.Get(ctx, Cc65)
	assert.Error(t, err)

	// one query per assembler, failures are cached too
	assert.Equal(t, int32(2), calls.Load())
}
