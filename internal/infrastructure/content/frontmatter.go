package content

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var fmDelimiter = []byte("---")

type frontMatter struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Tags        stringList `yaml:"tags"`
	Draft       bool       `yaml:"draft"`
}

// stringList accepts either a YAML sequence or a single comma separated scalar.
type stringList []string

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(value.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*s = out
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := value.Decode(&out); err != nil {
			return err
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a list of strings", value.Line)
	}
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Documents without one return a nil header.
func splitFrontMatter(data []byte) ([]byte, []byte) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(data, fmDelimiter) {
		return nil, data
	}

	rest := data[len(fmDelimiter):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, data
	}
	rest = rest[nl+1:]

	for offset := 0; offset <= len(rest); {
		line := rest[offset:]
		end := bytes.IndexByte(line, '\n')
		if end < 0 {
			end = len(line)
		}
		if bytes.Equal(bytes.TrimRight(line[:end], " \t\r"), fmDelimiter) {
			body := rest[min(offset+end+1, len(rest)):]
			return rest[:offset], body
		}
		offset += end + 1
	}

	return nil, data
}

func parseFrontMatter(header []byte) (frontMatter, error) {
	var fm frontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, fmt.Errorf("invalid front matter: %w", err)
	}
	return fm, nil
}
