package naming

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vvka-141/rawload/pkg/rawload"
)

var dataExtensions = map[string]bool{
	".csv": true,
	".tsv": true,
	".txt": true,
	".psv": true,
	".dat": true,
}

// Normalize converts raw into an identifier matching ^[a-z_][a-z0-9_]*$.
func Normalize(raw string) (string, error) {
	name := raw
	if ext := filepath.Ext(name); dataExtensions[strings.ToLower(ext)] && len(ext) < len(name) {
		name = strings.TrimSuffix(name, ext)
	}

	name = foldAccents(strings.ToLower(name))

	var b strings.Builder
	b.Grow(len(name))
	inSeparator := false
	for _, r := range name {
		if unicode.IsSpace(r) || r == '-' {
			if !inSeparator {
				b.WriteByte('_')
				inSeparator = true
			}
			continue
		}
		inSeparator = false
		if isIdentByte(r) {
			b.WriteRune(r)
		}
	}

	core := b.String()
	if core == "" {
		return "", fmt.Errorf("%q: %w", raw, rawload.ErrEmptyIdentifier)
	}

	if !startsIdentifier(core) {
		core = "t_" + core
	}
	if len(core) > rawload.MaxIdentifierLength {
		core = core[:rawload.MaxIdentifierLength]
	}
	return core, nil
}

// TableName derives a table identifier from a source file path.
func TableName(path string) (string, error) {
	return Normalize(filepath.Base(path))
}

// Columns normalizes a header row and resolves identifier collisions with policy.
// Blank labels are named unnamed_<position> before normalization.
func Columns(labels []string, policy rawload.DuplicatePolicy) ([]string, error) {
	ids := make([]string, len(labels))
	owner := make(map[string]string, len(labels))

	for i, label := range labels {
		source := label
		if strings.TrimSpace(source) == "" {
			source = "unnamed_" + strconv.Itoa(i)
		}

		id, err := Normalize(source)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}

		if first, taken := owner[id]; taken {
			if policy == rawload.DuplicateError {
				return nil, &rawload.DuplicateIdentifierError{Identifier: id, First: first, Second: label}
			}
			id = nextFree(id, owner)
		}

		owner[id] = label
		ids[i] = id
	}
	return ids, nil
}

// nextFree appends the smallest numeric suffix (from 2) that is not taken,
// shortening base so the result still fits the identifier limit.
func nextFree(base string, taken map[string]string) string {
	for n := 2; ; n++ {
		suffix := "_" + strconv.Itoa(n)
		stem := base
		if len(stem)+len(suffix) > rawload.MaxIdentifierLength {
			stem = stem[:rawload.MaxIdentifierLength-len(suffix)]
		}
		if _, ok := taken[stem+suffix]; !ok {
			return stem + suffix
		}
	}
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

func isIdentByte(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

func startsIdentifier(s string) bool {
	return s != "" && ((s[0] >= 'a' && s[0] <= 'z') || s[0] == '_')
}
