package irc

import (
	"errors"
	ircv3 "gopkg.in/irc.v3"
	"strings"
)

var ErrEmptyLine = errors.New("empty line")

// Line is the syntactic shape of one protocol line.
type Line struct {
	Tags     map[string]string
	Prefix   Prefix
	Command  string
	Params   []string
	Trailing *string
}

// LineParser tokenizes a single protocol line.
type LineParser interface {
	Parse(line string) (Line, error)
}

// IRCv3Parser parses lines with gopkg.in/irc.v3, which also unescapes tag
// values.
type IRCv3Parser struct{}

func (IRCv3Parser) Parse(line string) (Line, error) {
	if strings.TrimSpace(line) == "" {
		return Line{}, ErrEmptyLine
	}

	msg, err := ircv3.ParseMessage(line)
	if err != nil {
		return Line{}, err
	}

	out := Line{
		Tags:    make(map[string]string, len(msg.Tags)),
		Command: msg.Command,
		Params:  msg.Params,
	}
	for k, v := range msg.Tags {
		out.Tags[k] = string(v)
	}
	if msg.Prefix != nil {
		out.Prefix = Prefix{
			Name: msg.Prefix.Name,
			User: msg.Prefix.User,
			Host: msg.Prefix.Host,
		}
	}

	// irc.v3 folds the trailing parameter into Params.
	if hasTrailing(line) && len(out.Params) > 0 {
		last := len(out.Params) - 1
		trailing := out.Params[last]
		out.Trailing = &trailing
		out.Params = out.Params[:last]
	}

	return out, nil
}

// hasTrailing reports whether the line carries a " :" trailing parameter
// after its tags and prefix.
func hasTrailing(line string) bool {
	rest := strings.TrimRight(line, "\r\n")
	for _, marker := range []byte{'@', ':'} {
		if len(rest) == 0 || rest[0] != marker {
			continue
		}
		i := strings.IndexByte(rest, ' ')
		if i == -1 {
			return false
		}
		rest = rest[i+1:]
	}
	return strings.Contains(rest, " :")
}
