package id

import (
	"fmt"
	"strconv"
	"strings"
)

// instructionPrefix starts every payment instruction identifier written by
// the payment proposal exporter.
const instructionPrefix = "PMTINF-"

// FormatInstructionID returns an instruction ID like "PMTINF-PP-0042-3".
func FormatInstructionID(proposalID string, row int) string {
	return fmt.Sprintf("%s%s-%d", instructionPrefix, proposalID, row)
}

// ParseInstructionID parses "PMTINF-<proposal>-<row>" into its parts.
// Proposal identifiers may themselves contain hyphens, so the row is
// everything after the last hyphen.
func ParseInstructionID(s string) (proposalID string, row int, err error) {
	if !strings.HasPrefix(s, instructionPrefix) {
		return "", 0, fmt.Errorf("invalid instruction ID format: %q", s)
	}

	rest := s[len(instructionPrefix):]
	i := strings.LastIndex(rest, "-")
	if i <= 0 || i == len(rest)-1 {
		return "", 0, fmt.Errorf("invalid instruction ID format: %q", s)
	}

	row, err = strconv.Atoi(rest[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid row in instruction ID %q: %w", s, err)
	}

	return rest[:i], row, nil
}
