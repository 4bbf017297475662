package composer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/loomchat/loom/internal/logging"
	"github.com/loomchat/loom/internal/media"
	"github.com/loomchat/loom/internal/room"
)

// pipelineSink receives attachment pipeline completions. Every call
// carries the generation the task was started under; the sink discards
// calls whose generation is stale, which is how a completion arriving
// after cancellation becomes a no-op.
type pipelineSink interface {
	pickFinished(gen uint64, local *media.LocalMedia, err error)
	uploadProgress(gen uint64, sent, total int64)
	sendFinished(gen uint64, stage string, err error)
}

// attachmentPipeline runs the pick and process/upload tasks. It holds
// no state of its own; the controller owns the task lifecycle and the
// externally visible AttachmentState.
type attachmentPipeline struct {
	picker    media.Picker
	processor media.PreProcessor
	room      room.Room
	log       zerolog.Logger
}

func newAttachmentPipeline(picker media.Picker, processor media.PreProcessor, r room.Room) *attachmentPipeline {
	return &attachmentPipeline{
		picker:    picker,
		processor: processor,
		room:      r,
		log:       logging.Component("attachment").With().Str("room_id", r.ID()).Logger(),
	}
}

// runPick executes one pick on the calling goroutine and reports the
// result. A nil result with a nil error is a user cancel.
func (p *attachmentPipeline) runPick(ctx context.Context, gen uint64, source media.Source, sink pipelineSink) {
	p.log.Debug().Uint64("gen", gen).Stringer("source", source).Msg("pick started")
	local, err := p.picker.Pick(ctx, source)
	sink.pickFinished(gen, local, err)
}

// runSend processes picked media and uploads the result, forwarding
// each raw progress pair to the sink as its own call. The stage name
// in the completion tells the sink which step failed.
func (p *attachmentPipeline) runSend(ctx context.Context, gen uint64, local *media.LocalMedia, sink pipelineSink) {
	upload, err := p.processor.Process(ctx, local)
	if err != nil {
		sink.sendFinished(gen, "process", err)
		return
	}
	err = p.room.SendMedia(ctx, *upload, func(sent, total int64) {
		sink.uploadProgress(gen, sent, total)
	})
	sink.sendFinished(gen, "upload", err)
}

// uploadFraction maps a raw (sent, total) pair to progress in [0, 1]
// with no rounding beyond float precision.
func uploadFraction(sent, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(sent) / float64(total)
}
