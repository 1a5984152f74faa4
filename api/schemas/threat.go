// File: api/schemas/threat.go
package schemas

import (
	"fmt"
	"strings"
)

// -- Threat Level --

// ThreatLevel is the verdict an inspector attaches to an analyzed object.
// The output tree stores and forwards it without interpreting its ordering;
// Rank is provided for producers that need to aggregate verdicts.
type ThreatLevel string

const (
	ThreatSafe       ThreatLevel = "safe"
	ThreatNoOpinion  ThreatLevel = "no_opinion" // Sentinel returned when no verdict is available.
	ThreatSuspicious ThreatLevel = "suspicious"
	ThreatMalicious  ThreatLevel = "malicious"
)

// ThreatLevels returns every known level, least to most severe.
func ThreatLevels() []ThreatLevel {
	return []ThreatLevel{ThreatNoOpinion, ThreatSafe, ThreatSuspicious, ThreatMalicious}
}

// String renders the level the way reports display it (e.g. "NO_OPINION").
func (l ThreatLevel) String() string {
	if !l.Valid() {
		return "UNKNOWN"
	}
	return strings.ToUpper(string(l))
}

// Valid reports whether l is one of the declared levels.
func (l ThreatLevel) Valid() bool {
	switch l {
	case ThreatSafe, ThreatNoOpinion, ThreatSuspicious, ThreatMalicious:
		return true
	}
	return false
}

// Rank orders levels for aggregation. Unknown values rank with NoOpinion.
func (l ThreatLevel) Rank() int {
	switch l {
	case ThreatSafe:
		return 1
	case ThreatSuspicious:
		return 2
	case ThreatMalicious:
		return 3
	default:
		return 0
	}
}

// Max returns the more severe of l and other.
func (l ThreatLevel) Max(other ThreatLevel) ThreatLevel {
	if other.Rank() > l.Rank() {
		return other
	}
	return l
}

// Severity maps a verdict onto the finding severity scale.
func (l ThreatLevel) Severity() Severity {
	switch l {
	case ThreatMalicious:
		return SeverityHigh
	case ThreatSuspicious:
		return SeverityMedium
	default:
		return SeverityInfo
	}
}

func (l ThreatLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *ThreatLevel) UnmarshalText(d []byte) error {
	parsed, err := ParseThreatLevel(string(d))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseThreatLevel accepts either the stored form ("no_opinion") or the
// display form ("NO_OPINION"), case-insensitively.
func ParseThreatLevel(s string) (ThreatLevel, error) {
	l := ThreatLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return ThreatNoOpinion, fmt.Errorf("unrecognized threat level %q", s)
	}
	return l, nil
}

// -- Severity --

// Severity represents the severity level of a security finding, ranging from
// critical to informational. The values are lowercase to align with external
// report formats.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)
