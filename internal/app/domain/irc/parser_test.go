package irc

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestIRCv3Parser_Parse(t *testing.T) {
	p := IRCv3Parser{}

	line, err := p.Parse(`@display-name=Ronni;system-msg=ronni\shas\ssubscribed! :tmi.twitch.tv USERNOTICE #dallas :Great stream`)

	require.NoError(t, err)
	assert.Equal(t, "USERNOTICE", line.Command)
	assert.Equal(t, []string{"#dallas"}, line.Params)
	require.NotNil(t, line.Trailing)
	assert.Equal(t, "Great stream", *line.Trailing)
	assert.Equal(t, "ronni has subscribed!", line.Tags["system-msg"])
	assert.Equal(t, "tmi.twitch.tv", line.Prefix.Name)
}

func TestIRCv3Parser_Errors(t *testing.T) {
	p := IRCv3Parser{}

	_, err := p.Parse("")
	assert.ErrorIs(t, err, ErrEmptyLine)

	_, err = p.Parse("@tags-only")
	assert.Error(t, err)

	_, err = p.Parse(":prefix-only")
	assert.Error(t, err)
}

func TestHasTrailing(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{line: "PING :tmi.twitch.tv", want: true},
		{line: ":a!a@a JOIN #chan", want: false},
		{line: "@url=http://x :a!a@a JOIN #chan", want: false},
		{line: "@a=1 :tmi.twitch.tv USERSTATE #chan", want: false},
		{line: "@a=1 :tmi.twitch.tv PRIVMSG #chan :hi :)", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, hasTrailing(tt.line))
		})
	}
}
