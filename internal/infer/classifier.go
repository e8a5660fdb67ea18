package infer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// maxExactFloatInt is the largest integer magnitude a float64 holds exactly.
const maxExactFloatInt = 1 << 53

// Classification is the inferred type of a column.
type Classification struct {
	Type rawload.ColumnType

	// Layout is the time layout for TypeTimestamp columns.
	Layout string
}

// Classifier scans the values of one column and keeps track of which types
// are still compatible with everything seen so far.
// The zero value is not usable; call NewClassifier.
type Classifier struct {
	integer bool
	float   bool
	boolean bool
	layouts []string
	present int
}

// NewClassifier creates a Classifier with every type still a candidate.
func NewClassifier() *Classifier {
	return &Classifier{
		integer: true,
		float:   true,
		boolean: true,
		layouts: Layouts(),
	}
}

// Observe narrows the candidate types with one value. Missing values are ignored.
func (c *Classifier) Observe(v rawload.Value) {
	if v.Missing {
		return
	}
	s := strings.TrimSpace(v.Text)
	c.present++

	if c.integer && !isInt32(s) {
		c.integer = false
	}
	if c.float && !isFloat(s) {
		c.float = false
	}
	if c.boolean {
		if _, ok := parseBool(s); !ok {
			c.boolean = false
		}
	}
	if len(c.layouts) > 0 {
		kept := c.layouts[:0]
		for _, layout := range c.layouts {
			if _, err := time.Parse(layout, s); err == nil {
				kept = append(kept, layout)
			}
		}
		c.layouts = kept
	}
}

// Result returns the most specific type compatible with every observed value,
// in the order INTEGER, FLOAT, BOOLEAN, TIMESTAMP, falling back to TEXT.
// A column without present values is TEXT.
func (c *Classifier) Result() Classification {
	switch {
	case c.present == 0:
		return Classification{Type: rawload.TypeText}
	case c.integer:
		return Classification{Type: rawload.TypeInteger}
	case c.float:
		return Classification{Type: rawload.TypeFloat}
	case c.boolean:
		return Classification{Type: rawload.TypeBoolean}
	case len(c.layouts) > 0:
		return Classification{Type: rawload.TypeTimestamp, Layout: c.layouts[0]}
	default:
		return Classification{Type: rawload.TypeText}
	}
}

// MapType classifies a whole column. It never fails.
func MapType(values []rawload.Value) Classification {
	c := NewClassifier()
	for _, v := range values {
		c.Observe(v)
	}
	return c.Result()
}

// Convert turns a cell into the driver argument for its column type.
// Missing cells become nil.
func (cl Classification) Convert(v rawload.Value) (any, error) {
	if v.Missing {
		return nil, nil
	}
	s := strings.TrimSpace(v.Text)

	switch cl.Type {
	case rawload.TypeInteger:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("convert %q to INTEGER: %w", v.Text, err)
		}
		return n, nil
	case rawload.TypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !isFloat(s) {
			return nil, fmt.Errorf("convert %q to FLOAT: invalid number", v.Text)
		}
		return f, nil
	case rawload.TypeBoolean:
		b, ok := parseBool(s)
		if !ok {
			return nil, fmt.Errorf("convert %q to BOOLEAN: invalid boolean", v.Text)
		}
		return b, nil
	case rawload.TypeTimestamp:
		ts, err := time.Parse(cl.Layout, s)
		if err != nil {
			return nil, fmt.Errorf("convert %q to TIMESTAMP: %w", v.Text, err)
		}
		return ts, nil
	default:
		return v.Text, nil
	}
}

func isInt32(s string) bool {
	_, err := strconv.ParseInt(s, 10, 32)
	return err == nil
}

// isFloat accepts finite decimal literals. Integer literals must be exactly
// representable as float64.
func isFloat(s string) bool {
	if s == "" {
		return false
	}
	digits := false
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= '0' && ch <= '9':
			digits = true
		case ch == '+' || ch == '-' || ch == '.' || ch == 'e' || ch == 'E':
		default:
			return false
		}
	}
	if !digits {
		return false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n <= maxExactFloatInt && n >= -maxExactFloatInt
	} else if !strings.ContainsAny(s, ".eE") {
		// integer literal beyond int64
		return false
	}
	return true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y":
		return true, true
	case "false", "f", "no", "n":
		return false, true
	default:
		return false, false
	}
}
