package emit

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/helfem/hipgen/errors"
)

// CheckResult holds the result of a staleness check
type CheckResult struct {
	UpToDate    bool
	Differences map[string][]string // language -> descriptions of what differs
}

// CompareOutputs compares freshly rendered outputs against the files on
// disk. Metadata lines that change on every build (generator version) are
// filtered out before comparing, so a rebuilt binary alone does not flag
// otherwise identical output as stale.
func CompareOutputs(outputs []*Output) (*CheckResult, error) {
	differences := make(map[string][]string)

	for _, out := range outputs {
		existing, err := os.ReadFile(out.Path)
		if err != nil {
			if os.IsNotExist(err) {
				differences[out.Language] = append(differences[out.Language],
					out.Path+" (missing)")
				continue
			}
			return nil, errors.Wrapf(err, "reading %s", out.Path)
		}

		rendered := filterMetadataLines([]byte(out.Content))
		onDisk := filterMetadataLines(existing)
		if rendered != onDisk {
			differences[out.Language] = append(differences[out.Language], out.Path)
		}
	}

	return &CheckResult{
		UpToDate:    len(differences) == 0,
		Differences: differences,
	}, nil
}

// metadataPrefixes are comment lines that change on every generation and
// don't represent an actual formula change. One form per comment syntax.
var metadataPrefixes = []string{
	"// Generator version:",
	"<!-- Generator version:",
}

// filterMetadataLines removes metadata comment lines from content.
// Returns empty string if scanner encounters an error.
func filterMetadataLines(content []byte) string {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if isMetadataLine(trimmed) {
			continue
		}

		result.WriteString(line)
		result.WriteString("\n")
	}

	// Check for scanner errors (e.g., lines too long)
	if err := scanner.Err(); err != nil {
		// Return empty string on error - will cause comparison to fail
		// This is safer than silently ignoring the error
		return ""
	}

	return result.String()
}

func isMetadataLine(trimmed string) bool {
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// StampedVersion extracts the generator version recorded in a rendered
// file's banner, or empty when no stamp is present.
func StampedVersion(content []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		for _, prefix := range metadataPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				stamp := strings.TrimPrefix(trimmed, prefix)
				stamp = strings.TrimSuffix(strings.TrimSpace(stamp), "-->")
				return strings.TrimSpace(stamp)
			}
		}
	}
	return ""
}
