package irc

import "strings"

const channelMarker = "#"

// FormatChannel lowercases a channel and prefixes a single marker for
// outgoing commands.
func FormatChannel(channel string) string {
	return channelMarker + strings.ToLower(strings.TrimPrefix(channel, channelMarker))
}

// CleanChannel strips one leading marker.
func CleanChannel(channel string) string {
	return strings.TrimPrefix(channel, channelMarker)
}
