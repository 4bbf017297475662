// Package media defines the attachment collaborator contracts: picking
// local media from a source and pre-processing it into an uploadable
// form. Codec and transform internals live behind these interfaces.
package media

import (
	"context"
	"strings"
)

// Source is where an attachment comes from.
type Source int

const (
	SourceGallery Source = iota
	SourceCameraPhoto
	SourceCameraVideo
	SourceFiles
	SourcePoll
	SourceLocation
)

// String returns the source name for logs.
func (s Source) String() string {
	switch s {
	case SourceGallery:
		return "gallery"
	case SourceCameraPhoto:
		return "camera-photo"
	case SourceCameraVideo:
		return "camera-video"
	case SourceFiles:
		return "file-browser"
	case SourcePoll:
		return "poll"
	case SourceLocation:
		return "location"
	default:
		return "unknown"
	}
}

// NeedsCamera reports whether picking from this source requires the
// camera permission.
func (s Source) NeedsCamera() bool {
	return s == SourceCameraPhoto || s == SourceCameraVideo
}

// LocalMedia is a picked or captured attachment before processing.
type LocalMedia struct {
	Path      string
	MIMEType  string
	Name      string
	SizeBytes int64
}

// Previewable reports whether the attachment should be shown to the
// user for confirmation before sending. Images, video, and audio
// preview; everything else auto-sends.
func (l *LocalMedia) Previewable() bool {
	switch {
	case strings.HasPrefix(l.MIMEType, "image/"):
		return true
	case strings.HasPrefix(l.MIMEType, "video/"):
		return true
	case strings.HasPrefix(l.MIMEType, "audio/"):
		return true
	default:
		return false
	}
}

// Upload is media in its uploadable form, produced by a PreProcessor.
type Upload struct {
	Path      string
	MIMEType  string
	SizeBytes int64
}

// Picker opens the platform surface for a source and returns the
// user's choice. A nil result with a nil error means the user
// cancelled; that is not an error.
type Picker interface {
	Pick(ctx context.Context, source Source) (*LocalMedia, error)
}

// PreProcessor transforms picked media into an uploadable form
// (transcode, compress, strip metadata). The transform may suspend for
// arbitrary durations and honors context cancellation.
type PreProcessor interface {
	Process(ctx context.Context, local *LocalMedia) (*Upload, error)
}
