package blip

import "strings"

// SourceKind discriminates the origin of a capture.
type SourceKind string

const (
	SourceDiscord       SourceKind = "discord"
	SourceObsidianInbox SourceKind = "obsidian-inbox"
	SourceClipper       SourceKind = "clipper"
	SourceDailyNote     SourceKind = "daily-note"
	SourceManual        SourceKind = "manual"
)

// Source identifies where a blip was captured from. Each variant carries only
// its own fields; the colon-packed Ref form exists solely at the storage
// boundary and is decoded immediately on read.
type Source interface {
	Kind() SourceKind
	// Ref returns the opaque reference string stored in the source_ref field.
	Ref() string
}

// DiscordSource is a capture taken from a Discord message.
type DiscordSource struct {
	ChannelID string
	MessageID string
	UserID    string
}

func (s DiscordSource) Kind() SourceKind { return SourceDiscord }

func (s DiscordSource) Ref() string {
	return s.ChannelID + ":" + s.MessageID + ":" + s.UserID
}

// InboxSource is a note picked up from the Obsidian inbox folder.
type InboxSource struct {
	FilePath string
}

func (s InboxSource) Kind() SourceKind { return SourceObsidianInbox }
func (s InboxSource) Ref() string      { return s.FilePath }

// ClipperSource is a highlight saved by the web clipper.
type ClipperSource struct {
	FilePath    string
	HighlightID string
}

func (s ClipperSource) Kind() SourceKind { return SourceClipper }

func (s ClipperSource) Ref() string {
	return s.FilePath + ":" + s.HighlightID
}

// DailyNoteSource is a line extracted from a daily note.
type DailyNoteSource struct {
	Date string
}

func (s DailyNoteSource) Kind() SourceKind { return SourceDailyNote }
func (s DailyNoteSource) Ref() string      { return s.Date }

// ManualSource is a capture entered directly, with optional context.
type ManualSource struct {
	Context string
}

func (s ManualSource) Kind() SourceKind { return SourceManual }
func (s ManualSource) Ref() string      { return s.Context }

// ParseSource decodes a (kind, ref) pair back into a Source. An unknown or
// missing kind never fails: it decodes to ManualSource carrying the raw
// reference as context. Refs for known kinds decode best-effort; missing
// trailing segments come back as empty fields.
func ParseSource(kind, ref string) Source {
	switch SourceKind(kind) {
	case SourceDiscord:
		var channel, message, user string
		parts := strings.SplitN(ref, ":", 3)
		if len(parts) > 0 {
			channel = parts[0]
		}
		if len(parts) > 1 {
			message = parts[1]
		}
		if len(parts) > 2 {
			user = parts[2]
		}
		return DiscordSource{ChannelID: channel, MessageID: message, UserID: user}
	case SourceObsidianInbox:
		return InboxSource{FilePath: ref}
	case SourceClipper:
		// The highlight id never contains a colon; the file path may.
		if i := strings.LastIndex(ref, ":"); i >= 0 {
			return ClipperSource{FilePath: ref[:i], HighlightID: ref[i+1:]}
		}
		return ClipperSource{FilePath: ref}
	case SourceDailyNote:
		return DailyNoteSource{Date: ref}
	case SourceManual:
		return ManualSource{Context: ref}
	default:
		return ManualSource{Context: ref}
	}
}
