package treediff

import "fmt"

// ChecksumPolicy controls when the differ invokes the hasher while
// comparing a manifest against the live filesystem (spec §4.D).
type ChecksumPolicy uint8

const (
	// ChecksumPolicyNever never invokes the hasher; any metadata mismatch is
	// reported as PossiblyModified without further investigation.
	ChecksumPolicyNever ChecksumPolicy = iota
	// ChecksumPolicyWhenPossiblyModified invokes the hasher only for files
	// whose metadata doesn't match, to distinguish real content change from
	// metadata drift.
	ChecksumPolicyWhenPossiblyModified
	// ChecksumPolicyAlways invokes the hasher for every file present in both
	// the manifest and the live listing, regardless of metadata.
	ChecksumPolicyAlways
)

// MarshalText implements encoding.TextMarshaler.MarshalText.
func (p ChecksumPolicy) MarshalText() ([]byte, error) {
	var result string
	switch p {
	case ChecksumPolicyNever:
		result = "never"
	case ChecksumPolicyWhenPossiblyModified:
		result = "when-possibly-modified"
	case ChecksumPolicyAlways:
		result = "always"
	default:
		return nil, fmt.Errorf("unknown checksum policy: %d", p)
	}
	return []byte(result), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.UnmarshalText.
func (p *ChecksumPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "never":
		*p = ChecksumPolicyNever
	case "when-possibly-modified":
		*p = ChecksumPolicyWhenPossiblyModified
	case "always":
		*p = ChecksumPolicyAlways
	default:
		return fmt.Errorf("unknown checksum policy specification: %s", text)
	}
	return nil
}

// String provides a human-readable representation of a checksum policy.
func (p ChecksumPolicy) String() string {
	text, err := p.MarshalText()
	if err != nil {
		return "unknown"
	}
	return string(text)
}
