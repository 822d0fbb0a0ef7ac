// Package media classifies the source of embedded content by media type.
package media

import (
	"mime"
	"path"
	"strings"
)

// Type is the kind of media an embedded source refers to.
type Type uint8

// Possible values of Type.
const (
	Other Type = iota
	Image
	Audio
	Video
	Flash
)

var typeNames = [...]string{
	Other: "other", Image: "image", Audio: "audio", Video: "video", Flash: "flash",
}

func (t Type) String() string { return typeNames[t] }

// Extensions that the system MIME database often lacks.
var fallback = map[string]string{
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".opus": "audio/opus",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".ogv":  "video/ogg",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".swf":  "application/x-shockwave-flash",
	".bmp":  "image/bmp",
	".ico":  "image/x-icon",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// Classify guesses the media type of src, which may be a path or a URL,
// from its extension. A query string or fragment is ignored.
func Classify(src string) Type {
	return FromMIME(TypeOf(src))
}

// TypeOf returns the MIME type of src guessed from its extension, or "" if
// it is unknown.
func TypeOf(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	ext := strings.ToLower(path.Ext(src))
	if ext == "" {
		return ""
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return fallback[ext]
}

// FromMIME maps a MIME type to a Type.
func FromMIME(mimeType string) Type {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	major, minor, _ := strings.Cut(strings.TrimSpace(mimeType), "/")
	switch {
	case major == "image":
		return Image
	case major == "audio":
		return Audio
	case major == "video":
		return Video
	case minor == "x-shockwave-flash" || minor == "vnd.adobe.flash.movie":
		return Flash
	}
	return Other
}
