package irc

// Prefix is the origin of a message. Parts missing from the line are empty.
type Prefix struct {
	Name string `json:"name"`
	User string `json:"user"`
	Host string `json:"host"`
}

// Message is one received protocol line after framing and tag normalization.
type Message struct {
	Command string   `json:"command"`
	Tags    Tags     `json:"tags"`
	Params  []string `json:"params"`
	Tail    *string  `json:"tail"`
	Prefix  Prefix   `json:"prefix"`
	Raw     string   `json:"raw"`
}

// Text returns the trailing payload or "" when the line had none.
func (m *Message) Text() string {
	if m.Tail == nil {
		return ""
	}
	return *m.Tail
}

// Param returns the i-th positional parameter or "".
func (m *Message) Param(i int) string {
	if i < 0 || i >= len(m.Params) {
		return ""
	}
	return m.Params[i]
}

// Channel is the first parameter with the channel marker stripped.
func (m *Message) Channel() string {
	return CleanChannel(m.Param(0))
}

func (m *Message) setTail(s string) {
	m.Tail = &s
}
