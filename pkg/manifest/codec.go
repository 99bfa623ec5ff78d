package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/treeward/treeward/pkg/fsutil"
	"github.com/treeward/treeward/pkg/twerrors"
)

// Encode serializes a Manifest into its canonical text form (spec §4.C,
// §6). Encoding is a total, deterministic function of the manifest's
// contents: equal manifests produce byte-identical output, sorted
// lexicographically by child name, with every name double-quoted so that
// arbitrary bytes round-trip. This mirrors the sorted, delimiter-based
// canonical encoding bufcas uses for its own Manifest type, adapted to a
// section-per-entry shape instead of one line per entry so that each
// entry's type-specific fields are self-describing.
func Encode(m *Manifest) []byte {
	var buffer bytes.Buffer

	fmt.Fprintf(&buffer, "[metadata]\nversion = %d\n", m.Version)

	names := make([]string, 0, len(m.Entries))
	for name := range m.Entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := m.Entries[name]
		fmt.Fprintf(&buffer, "\n[entries.%s]\n", strconv.Quote(name))
		switch entry.Kind {
		case fsutil.EntryKindFile:
			fmt.Fprintf(&buffer, "type = File\n")
			fmt.Fprintf(&buffer, "sha256 = %s\n", entry.Digest)
			fmt.Fprintf(&buffer, "mtime_nanos = %d\n", entry.ModificationTimeNanos)
			fmt.Fprintf(&buffer, "size = %d\n", entry.Size)
		case fsutil.EntryKindDir:
			fmt.Fprintf(&buffer, "type = Dir\n")
		case fsutil.EntryKindSymlink:
			fmt.Fprintf(&buffer, "type = Symlink\n")
			fmt.Fprintf(&buffer, "symlink_target = %s\n", strconv.Quote(entry.Target))
		}
	}

	return buffer.Bytes()
}

// sectionKind identifies what kind of section the decoder is currently
// inside.
type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionMetadata
	sectionEntry
)

// Decode parses a manifest's canonical text form. Any malformed syntax,
// unsupported version, unknown field, unknown type, or structural
// invariant violation is fatal (spec §4.C) and returned as a
// *twerrors.Error with KindCorruptedManifest.
func Decode(data []byte) (*Manifest, error) {
	m := &Manifest{Entries: make(map[string]ManifestEntry)}

	var (
		state          sectionKind
		haveVersion    bool
		currentName    string
		currentEntry   ManifestEntry
		haveCurrent    bool
		sawType        bool
		fields         map[string]bool
	)

	flush := func() error {
		if !haveCurrent {
			return nil
		}
		if !sawType {
			return corrupted("entry %q missing type", currentName)
		}
		if err := currentEntry.EnsureValid(); err != nil {
			return corrupted("entry %q: %v", currentName, err)
		}
		if currentEntry.Kind == fsutil.EntryKindFile {
			for _, field := range []string{"sha256", "mtime_nanos", "size"} {
				if !fields[field] {
					return corrupted("entry %q missing %s", currentName, field)
				}
			}
		}
		if _, exists := m.Entries[currentName]; exists {
			return corrupted("duplicate entry %q", currentName)
		}
		m.Entries[currentName] = currentEntry
		haveCurrent = false
		sawType = false
		return nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if err := flush(); err != nil {
				return nil, err
			}
			header := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			switch {
			case header == "metadata":
				state = sectionMetadata
			case strings.HasPrefix(header, "entries."):
				name, err := unquoteName(strings.TrimPrefix(header, "entries."))
				if err != nil {
					return nil, corrupted("malformed entry section header: %s", line)
				}
				state = sectionEntry
				currentName = name
				currentEntry = ManifestEntry{}
				haveCurrent = true
				fields = make(map[string]bool)
			default:
				return nil, corrupted("unknown section: %s", header)
			}
			continue
		}

		key, value, err := splitAssignment(line)
		if err != nil {
			return nil, corrupted("malformed line: %s", line)
		}

		switch state {
		case sectionMetadata:
			if key != "version" {
				return nil, corrupted("unknown metadata field: %s", key)
			}
			version, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return nil, corrupted("malformed version: %s", value)
			}
			m.Version = uint32(version)
			haveVersion = true
		case sectionEntry:
			if err := applyEntryField(&currentEntry, &sawType, key, value); err != nil {
				return nil, corrupted("entry %q: %v", currentName, err)
			}
			fields[key] = true
		default:
			return nil, corrupted("assignment outside of any section: %s", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, corrupted("unable to read manifest: %v", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if !haveVersion {
		return nil, corrupted("missing metadata.version")
	}
	if m.Version != CurrentVersion {
		return nil, corrupted("unsupported manifest version: %d", m.Version)
	}

	return m, nil
}

// applyEntryField assigns one recognized field to an in-progress entry,
// rejecting fields that don't belong to the type already declared (or that
// appear before a type is declared).
func applyEntryField(entry *ManifestEntry, sawType *bool, key, value string) error {
	if key == "type" {
		switch value {
		case "File":
			entry.Kind = fsutil.EntryKindFile
		case "Dir":
			entry.Kind = fsutil.EntryKindDir
		case "Symlink":
			entry.Kind = fsutil.EntryKindSymlink
		default:
			return fmt.Errorf("unknown type: %s", value)
		}
		*sawType = true
		return nil
	}
	if !*sawType {
		return fmt.Errorf("field %q before type", key)
	}

	switch key {
	case "sha256":
		if entry.Kind != fsutil.EntryKindFile {
			return fmt.Errorf("sha256 field not valid for %s", entry.Kind)
		}
		entry.Digest = value
	case "mtime_nanos":
		if entry.Kind != fsutil.EntryKindFile {
			return fmt.Errorf("mtime_nanos field not valid for %s", entry.Kind)
		}
		nanos, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("malformed mtime_nanos: %s", value)
		}
		entry.ModificationTimeNanos = nanos
	case "size":
		if entry.Kind != fsutil.EntryKindFile {
			return fmt.Errorf("size field not valid for %s", entry.Kind)
		}
		size, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("malformed size: %s", value)
		}
		entry.Size = size
	case "symlink_target":
		if entry.Kind != fsutil.EntryKindSymlink {
			return fmt.Errorf("symlink_target field not valid for %s", entry.Kind)
		}
		target, err := strconv.Unquote(value)
		if err != nil {
			return fmt.Errorf("malformed symlink_target: %s", value)
		}
		entry.Target = target
	default:
		return fmt.Errorf("unknown field: %s", key)
	}
	return nil
}

// splitAssignment splits a "key = value" line, requiring exactly the
// canonical " = " separator on output but tolerating arbitrary surrounding
// whitespace on input.
func splitAssignment(line string) (key, value string, err error) {
	index := strings.Index(line, "=")
	if index == -1 {
		return "", "", fmt.Errorf("missing '='")
	}
	key = strings.TrimSpace(line[:index])
	value = strings.TrimSpace(line[index+1:])
	if key == "" {
		return "", "", fmt.Errorf("empty key")
	}
	return key, value, nil
}

// unquoteName reverses strconv.Quote on an entry section's child name.
func unquoteName(quoted string) (string, error) {
	return strconv.Unquote(quoted)
}

// corrupted builds a CorruptedManifest error with a formatted message.
func corrupted(format string, args ...interface{}) error {
	return twerrors.New(twerrors.KindCorruptedManifest, "", fmt.Errorf(format, args...))
}
