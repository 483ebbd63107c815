package irc

import (
	"errors"
	"fmt"
	"strings"
)

const (
	lineDelimiter = "\r\n"

	// MaxLineLength is the IRCv3 limit: 8191 bytes of tags plus a 512 byte
	// message.
	MaxLineLength = 8191 + 512
)

var ErrLineTooLong = errors.New("line exceeds maximum length")

// LineError is a line that could not be framed.
type LineError struct {
	Line string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("frame %q: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Framer turns transport chunks into messages. A line split across chunks is
// held back until its delimiter arrives.
type Framer struct {
	parser  LineParser
	pending string

	// The rest of an oversized line is dropped up to its delimiter.
	discarding bool
}

func NewFramer(parser LineParser) *Framer {
	if parser == nil {
		parser = IRCv3Parser{}
	}
	return &Framer{parser: parser}
}

// Feed frames every complete line in pending+chunk, in order. A bad line is
// reported in errs and does not stop the lines after it.
func (f *Framer) Feed(chunk string) (msgs []*Message, errs []error) {
	data := f.pending + chunk
	f.pending = ""

	if f.discarding {
		i := strings.Index(data, lineDelimiter)
		if i < 0 {
			// Keep a lone CR in case its LF starts the next chunk.
			if strings.HasSuffix(data, "\r") {
				f.pending = "\r"
			}
			return nil, nil
		}
		data = data[i+len(lineDelimiter):]
		f.discarding = false
	}

	data = strings.TrimLeft(data, " \t\r\n")

	segments := strings.Split(data, lineDelimiter)
	last := len(segments) - 1
	if tail := segments[last]; tail != "" {
		if len(tail) > MaxLineLength {
			errs = append(errs, &LineError{Line: truncate(tail), Err: ErrLineTooLong})
			f.discarding = true
		} else {
			f.pending = tail
		}
	}

	for _, seg := range segments[:last] {
		msg, err := f.frame(seg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}

	return msgs, errs
}

// Flush frames whatever is buffered without waiting for a delimiter.
func (f *Framer) Flush() (*Message, error) {
	seg := f.pending
	f.pending = ""
	if f.discarding {
		f.discarding = false
		return nil, nil
	}
	return f.frame(seg)
}

func (f *Framer) frame(seg string) (*Message, error) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return nil, nil
	}
	if len(seg) > MaxLineLength {
		return nil, &LineError{Line: truncate(seg), Err: ErrLineTooLong}
	}

	line, err := f.parser.Parse(seg)
	if err != nil {
		return nil, &LineError{Line: seg, Err: err}
	}

	msg := &Message{
		Command: line.Command,
		Tags:    NormalizeTags(line.Tags),
		Params:  line.Params,
		Tail:    line.Trailing,
		Prefix:  line.Prefix,
		Raw:     seg,
	}
	if msg.Params == nil {
		msg.Params = []string{}
	}

	return msg, nil
}

func truncate(s string) string {
	const keep = 64
	if len(s) <= keep {
		return s
	}
	return s[:keep] + "..."
}
