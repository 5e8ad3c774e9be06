package frontend

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

var errConfigSyntax = errors.New("malformed element config")

// elementConfig is a `{#label, caption="...", figure, width=5cm}` block
// attached to the following header, code block, table or image.
type elementConfig struct {
	label   string
	caption string
	figure  *bool
	values  map[string]string // remaining key=value pairs
	flags   []string          // remaining single words
}

// isConfigLine reports whether line looks like an element config.
func isConfigLine(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 2 && line[0] == '{' && line[len(line)-1] == '}'
}

// parseConfig parses the content of a config line, braces included.
// Values may be double-quoted to contain commas; inside quotes a backslash
// escapes the next character. Recoverable problems are returned as
// warnings next to the config.
func parseConfig(line string) (*elementConfig, []string, error) {
	line = strings.TrimSpace(line)
	if !isConfigLine(line) {
		return nil, nil, errConfigSyntax
	}
	entries, err := splitEntries(line[1 : len(line)-1])
	if err != nil {
		return nil, nil, err
	}

	var (
		warnings []string
		figures  int
	)
	c := &elementConfig{values: map[string]string{}}
	for _, e := range entries {
		key, value, isPair := strings.Cut(e, "=")
		key = strings.TrimSpace(key)
		switch {
		case !isPair && strings.HasPrefix(key, "#"):
			if c.label != "" {
				warnings = append(warnings, "found two labels, using the last one")
			}
			c.label = strings.ToLower(key[1:])
		case !isPair && key == "figure":
			figures++
			c.setFigure(true)
		case !isPair && key == "nofigure":
			figures++
			c.setFigure(false)
		case !isPair:
			c.flags = append(c.flags, key)
		case key == "figure":
			figures++
			switch v := unquote(value); v {
			case "true":
				c.setFigure(true)
			case "false":
				c.setFigure(false)
			default:
				warnings = append(warnings, "invalid figure value "+strconv.Quote(v)+", only true and false are allowed")
			}
		default:
			c.values[key] = unquote(value)
		}
	}
	if figures > 1 {
		warnings = append(warnings, "only one of figure=true, figure=false, figure and nofigure is allowed")
		c.figure = nil
	}
	if v, ok := c.values["caption"]; ok {
		c.caption = v
		delete(c.values, "caption")
	}
	return c, warnings, nil
}

func (c *elementConfig) setFigure(v bool) {
	c.figure = &v
}

// take removes and returns the value of key.
func (c *elementConfig) take(key string) string {
	if c == nil {
		return ""
	}
	v := c.values[key]
	delete(c.values, key)
	return v
}

// takeLabel removes and returns the label.
func (c *elementConfig) takeLabel() string {
	if c == nil {
		return ""
	}
	l := c.label
	c.label = ""
	return l
}

// takeCaption removes and returns the caption.
func (c *elementConfig) takeCaption() string {
	if c == nil {
		return ""
	}
	cap := c.caption
	c.caption = ""
	return cap
}

// wantsFigure returns the figure setting, or def when none was given.
func (c *elementConfig) wantsFigure(def bool) bool {
	if c == nil || c.figure == nil {
		return def
	}
	return *c.figure
}

// unused lists the keys nobody consumed, for warnings. A leftover label
// is not reported: without a target it becomes a plain anchor.
func (c *elementConfig) unused() []string {
	if c == nil {
		return nil
	}
	out := append([]string(nil), c.flags...)
	if c.caption != "" {
		out = append(out, "caption")
	}
	for k := range c.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// splitEntries splits at commas outside double quotes.
func splitEntries(s string) ([]string, error) {
	var (
		entries []string
		cur     strings.Builder
		quoted  bool
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quoted && r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			quoted = !quoted
		case r == ',' && !quoted:
			entries = append(entries, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if quoted {
		return nil, errConfigSyntax
	}
	entries = append(entries, cur.String())

	out := entries[:0]
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

// unquote strips surrounding double quotes and resolves escapes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s[1 : len(s)-1] {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
