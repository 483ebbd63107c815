package irc

import (
	"strconv"
	"strings"
)

// Tags holds normalized tag values: string, bool, int, ComplexTag or nil.
type Tags map[string]any

// ComplexTag is a multi-valued tag split into entries. Values are string,
// []string or nil.
type ComplexTag map[string]any

const TagIsAction = "isAction"

var booleanTags = map[string]struct{}{
	"mod":       {},
	"subsOnly":  {},
	"r9k":       {},
	"rituals":   {},
	"slow":      {},
	"emoteOnly": {},
}

type complexTagFormat struct {
	key       string
	primary   string
	secondary string
	tertiary  string
}

var complexTags = []complexTagFormat{
	{key: "badges", primary: ",", secondary: "/"},
	{key: "badgeInfo", primary: ",", secondary: "/"},
	{key: "emotes", primary: "/", secondary: ":", tertiary: ","},
}

// NormalizeTags renames kebab-case keys to camelCase and coerces the values
// of known tags. Absent tags stay absent.
func NormalizeTags(raw map[string]string) Tags {
	tags := make(Tags, len(raw))
	for key, val := range raw {
		key = CamelCase(key)

		switch {
		case isBooleanTag(key):
			tags[key] = val == "1"
		case key == "followersOnly":
			tags[key] = followersOnly(val)
		default:
			tags[key] = val
		}
	}

	for _, format := range complexTags {
		parseComplexTag(tags, format)
	}

	return tags
}

// CamelCase joins hyphen-separated segments, capitalizing the first letter of
// every segment after the first: "msg-param-sub-plan" -> "msgParamSubPlan".
func CamelCase(key string) string {
	if !strings.Contains(key, "-") {
		return key
	}

	segments := strings.Split(key, "-")

	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(segments[0])
	for _, s := range segments[1:] {
		if s == "" {
			continue
		}
		b.WriteString(strings.ToUpper(s[:1]))
		b.WriteString(s[1:])
	}

	return b.String()
}

func isBooleanTag(key string) bool {
	_, ok := booleanTags[key]
	return ok
}

// followersOnly is -1 when disabled, 0 for "any follower" and the required
// follow age in minutes otherwise.
func followersOnly(val string) any {
	minutes, err := strconv.Atoi(val)
	if err != nil || minutes <= 0 {
		return false
	}
	return minutes
}

func parseComplexTag(tags Tags, format complexTagFormat) {
	raw, ok := tags[format.key]
	if !ok {
		return
	}

	parsed := ComplexTag{}
	tags[format.key] = parsed

	s, ok := raw.(string)
	if !ok || s == "" {
		return
	}

	for _, entry := range strings.Split(s, format.primary) {
		parts := strings.Split(entry, format.secondary)
		key := parts[0]
		if len(parts) < 2 || parts[1] == "" {
			parsed[key] = nil
			continue
		}

		if format.tertiary == "" {
			parsed[key] = parts[1]
		} else {
			parsed[key] = strings.Split(parts[1], format.tertiary)
		}
	}
}

func (t Tags) GetString(key string) string {
	s, _ := t[key].(string)
	return s
}

func (t Tags) GetBool(key string) bool {
	b, _ := t[key].(bool)
	return b
}

// GetInt reads an int tag, parsing string values when needed.
func (t Tags) GetInt(key string) (int, bool) {
	switch v := t[key].(type) {
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func (t Tags) GetComplex(key string) ComplexTag {
	c, _ := t[key].(ComplexTag)
	return c
}

// Clone copies the top level of the map.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
