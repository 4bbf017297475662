package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// FilePicker is a Picker that resolves each source to a fixed local
// file. It backs the demo binary, where there is no platform picker to
// open; a missing mapping behaves like a user cancel.
type FilePicker struct {
	// Paths maps a source to the file it picks.
	Paths map[Source]string
}

// Pick stats the configured file and returns it as picked media.
func (p *FilePicker) Pick(ctx context.Context, source Source) (*LocalMedia, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := p.Paths[source]
	if !ok {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat picked file: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &LocalMedia{
		Path:      path,
		MIMEType:  mimeType,
		Name:      filepath.Base(path),
		SizeBytes: info.Size(),
	}, nil
}

// PassthroughProcessor is a PreProcessor that performs no transform.
// The demo binary uses it; real deployments plug in a codec pipeline.
type PassthroughProcessor struct{}

// Process returns the media as-is in uploadable form.
func (PassthroughProcessor) Process(ctx context.Context, local *LocalMedia) (*Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Upload{
		Path:      local.Path,
		MIMEType:  local.MIMEType,
		SizeBytes: local.SizeBytes,
	}, nil
}
