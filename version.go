package gribindex

import (
	"strconv"
	"strings"
)

// FormatVersion is the revision of the index layout, as declared by the
// index_version attribute.
type FormatVersion int

const (
	// VersionOther is an unrecognized declaration. Records and geometries are
	// read with the 8.0 layout.
	VersionOther FormatVersion = iota
	// Version70 records carry decoded fields; geometries are text lines.
	Version70
	// Version71 files are obsolete and removed on sight.
	Version71
	// Version7x covers other 7 series revisions: 8.0 records with text
	// geometries.
	Version7x
	// Version80 records carry the raw product definition section; geometries
	// are raw grid definition sections.
	Version80
	// VersionLater is 8.1 and above, read like Version80.
	VersionLater
)

// ParseFormatVersion classifies an index_version attribute value.
func ParseFormatVersion(s string) FormatVersion {
	switch {
	case s == "7.0":
		return Version70
	case s == "7.1":
		return Version71
	case strings.HasPrefix(s, "7"):
		return Version7x
	case strings.HasPrefix(s, "8.0"):
		return Version80
	}
	major, minor, ok := splitVersion(s)
	if ok && (major > 8 || major == 8 && minor >= 1) {
		return VersionLater
	}
	return VersionOther
}

func splitVersion(s string) (int, int, bool) {
	ma, mi, found := strings.Cut(s, ".")
	major, err := strconv.Atoi(ma)
	if err != nil {
		return 0, 0, false
	}
	if !found {
		return major, 0, true
	}
	minor, err := strconv.Atoi(mi)
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// TextGeometries reports whether geometries are stored as text lines ending
// with an "End" line.
func (v FormatVersion) TextGeometries() bool {
	return v == Version70 || v == Version71 || v == Version7x
}

// DecodedRecords reports whether records carry decoded fields rather than a
// raw product definition section.
func (v FormatVersion) DecodedRecords() bool { return v == Version70 }

func (v FormatVersion) String() string {
	switch v {
	case Version70:
		return "7.0"
	case Version71:
		return "7.1"
	case Version7x:
		return "7.x"
	case Version80:
		return "8.0"
	case VersionLater:
		return ">8.0"
	}
	return "unknown"
}
