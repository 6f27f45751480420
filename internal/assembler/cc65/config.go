package cc65

import (
	"fmt"
	"strings"
)

const (
	memoryConfig = `MEMORY {
    MAIN:        start = $0000,  size = $%06X, type = rw, file = %%O, fill = no;
}
`

	segmentsConfig = `
SEGMENTS {
    CODE:        load = MAIN, type = rw;
}
`
)

// Config holds the linker configuration settings.
type Config struct {
	FileLength int
}

// GenerateLinkerConfig generates a ld65 linker config that writes the CODE
// segment to the output file unchanged. The source sets the addresses with
// .org, so the start of the memory area is not used for relocation.
func GenerateLinkerConfig(conf Config) (string, error) {
	if conf.FileLength <= 0 {
		return "", fmt.Errorf("invalid file length %d", conf.FileLength)
	}

	buf := &strings.Builder{}
	if _, err := fmt.Fprintf(buf, memoryConfig, conf.FileLength); err != nil {
		return "", fmt.Errorf("writing memory config: %w", err)
	}
	buf.WriteString(segmentsConfig)

	generated := buf.String()
	return generated, nil
}
