package assembler

import (
	"fmt"
	"strconv"
)

// Version is the version of an assembler. The zero value means that the
// version is not known, it is treated as newer than any known version.
type Version struct {
	Major int
	Minor int
	Build int
}

// NewVersion returns a version.
func NewVersion(major, minor, build int) Version {
	return Version{Major: major, Minor: minor, Build: build}
}

// IsZero returns whether the version is unknown.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Compare returns -1, 0 or 1 depending on whether v is older, equal or newer
// than other.
func (v Version) Compare(other Version) int {
	switch {
	case v.IsZero() && other.IsZero():
		return 0
	case v.IsZero():
		return 1
	case other.IsZero():
		return -1
	}

	for _, diff := range [...]int{v.Major - other.Major, v.Minor - other.Minor, v.Build - other.Build} {
		if diff < 0 {
			return -1
		}
		if diff > 0 {
			return 1
		}
	}
	return 0
}

// AtLeast returns whether v is equal to or newer than the given version.
func (v Version) AtLeast(major, minor, build int) bool {
	return v.Compare(NewVersion(major, minor, build)) >= 0
}

func (v Version) String() string {
	if v.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

func parseVersionParts(parts []string) (Version, error) {
	var values [3]int
	for i, part := range parts {
		if i >= len(values) || part == "" {
			break
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("parsing version part '%s': %w", part, err)
		}
		values[i] = value
	}
	return NewVersion(values[0], values[1], values[2]), nil
}
