// Package assembler defines the supported target assemblers, their quirks
// and the detection of their versions.
package assembler

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"
)

// ID identifies a target assembler.
type ID uint8

// supported assemblers.
const (
	Unknown ID = iota
	Tass64
	Acme
	Cc65
	Merlin32
)

// Info describes a target assembler.
type Info struct {
	ID          ID
	Name        string // human readable name
	CLIName     string // name used on the command line and in file names
	Executable  string
	VersionArgs []string
	// ColumnWidths are the default widths of the label, opcode, operand
	// and comment columns.
	ColumnWidths [4]int

	versionPattern *regexp.Regexp
}

var infos = map[ID]Info{
	Tass64: {
		ID:             Tass64,
		Name:           "64tass",
		CLIName:        "64tass",
		Executable:     "64tass",
		VersionArgs:    []string{"--version"},
		ColumnWidths:   [4]int{8, 8, 11, 72},
		versionPattern: regexp.MustCompile(`Macro V(\d+)\.(\d+)\.(\d+)`),
	},
	Acme: {
		ID:             Acme,
		Name:           "ACME",
		CLIName:        "acme",
		Executable:     "acme",
		VersionArgs:    []string{"--version"},
		ColumnWidths:   [4]int{8, 8, 11, 72},
		versionPattern: regexp.MustCompile(`release (\d+)\.(\d+)(?:\.(\d+))?`),
	},
	Cc65: {
		ID:             Cc65,
		Name:           "cc65",
		CLIName:        "cc65",
		Executable:     "cl65",
		VersionArgs:    []string{"--version"},
		ColumnWidths:   [4]int{9, 8, 11, 72},
		versionPattern: regexp.MustCompile(`V(\d+)\.(\d+)`),
	},
	Merlin32: {
		ID:             Merlin32,
		Name:           "Merlin 32",
		CLIName:        "merlin32",
		Executable:     "Merlin32",
		ColumnWidths:   [4]int{9, 6, 11, 72},
		versionPattern: regexp.MustCompile(` v (\d+)\.(\d+),`),
	},
}

// All returns all supported assemblers in a stable order.
func All() []ID {
	return []ID{Tass64, Acme, Cc65, Merlin32}
}

// Lookup returns the information about an assembler.
func Lookup(id ID) (Info, bool) {
	info, ok := infos[id]
	return info, ok
}

// ParseID returns the assembler that has the given command line name.
func ParseID(name string) (ID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, id := range All() {
		if infos[id].CLIName == name {
			return id, nil
		}
	}
	return Unknown, fmt.Errorf("unsupported assembler '%s', valid options: %s", name, strings.Join(Names(), ", "))
}

// Names returns the command line names of all assemblers.
func Names() []string {
	names := make([]string, 0, len(infos))
	for _, id := range All() {
		names = append(names, infos[id].CLIName)
	}
	return names
}

func (id ID) String() string {
	if info, ok := infos[id]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown(%d)", uint8(id))
}

// ExecutableName returns the name of the executable on the current platform.
func (i Info) ExecutableName() string {
	if runtime.GOOS == "windows" {
		return i.Executable + ".exe"
	}
	return i.Executable
}

// ParseVersion extracts the version from the output of the assembler.
func (i Info) ParseVersion(output string) (Version, error) {
	matches := i.versionPattern.FindStringSubmatch(output)
	if matches == nil {
		return Version{}, fmt.Errorf("no %s version found in output", i.Name)
	}
	return parseVersionParts(matches[1:])
}
