package site

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// OutlineDeep is the keyword for the full h2..h6 range
	OutlineDeep = "deep"

	minHeadingLevel = 1
	maxHeadingLevel = 6
)

// OutlineLevel heading levels shown in the page outline.
// It accepts a single level (2), a range ([2, 3]) or "deep".
type OutlineLevel []int

// Range returns the inclusive heading range, h2 only when nothing is configured
func (l OutlineLevel) Range() (int, int) {
	switch len(l) {
	case 0:
		return 2, 2
	case 1:
		return l[0], l[0]
	default:
		return l[0], l[1]
	}
}

// Contains is the given heading level part of the outline
func (l OutlineLevel) Contains(level int) bool {
	lo, hi := l.Range()
	return level >= lo && level <= hi
}

func (l *OutlineLevel) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null" || raw == "false":
		*l = nil
		return nil
	case strings.HasPrefix(raw, `"`):
		s, err := strconv.Unquote(raw)
		if err != nil {
			return errors.Wrap(err, "invalid outline level")
		}
		return l.parseKeyword(s)
	case strings.HasPrefix(raw, "["):
		var levels []int
		if err := json.Unmarshal(data, &levels); err != nil {
			return errors.Wrap(err, "invalid outline level range")
		}
		*l = levels
		return nil
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.Wrap(err, "invalid outline level")
		}
		*l = OutlineLevel{n}
		return nil
	}
}

func (l *OutlineLevel) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var levels []int
		if err := value.Decode(&levels); err != nil {
			return errors.Wrap(err, "invalid outline level range")
		}
		*l = levels
		return nil
	case yaml.ScalarNode:
		if n, err := strconv.Atoi(value.Value); err == nil {
			*l = OutlineLevel{n}
			return nil
		}
		if value.Value == "false" {
			*l = nil
			return nil
		}
		return l.parseKeyword(value.Value)
	default:
		return errors.Errorf("invalid outline level at line %d", value.Line)
	}
}

func (l *OutlineLevel) parseKeyword(s string) error {
	if s != OutlineDeep {
		return errors.Errorf("unknown outline level %q", s)
	}
	*l = OutlineLevel{2, maxHeadingLevel}
	return nil
}
