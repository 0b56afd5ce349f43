package alert

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

const maxBlocksPerMessage = 50

// Sink is where alert blocks ultimately go. The reconciler, webhook
// enforcement engine, and dry-run harness depend on this interface
// only — never on *SlackSink directly — so tests can substitute a
// recording fake.
type Sink interface {
	// Flush sends the blocks accumulated in b as one logical message,
	// split into chunks of at most maxBlocksPerMessage blocks each
	// (§4.1 item 4). A no-op builder is not sent.
	Flush(ctx context.Context, b *Builder) error
}

// SlackSink posts to a single Slack channel via the chat.postMessage
// API. When dryRun is set it logs what it would have sent instead of
// calling the API, the same fake-mode shape prow's slack client uses
// for its own fake client.
type SlackSink struct {
	api     *slack.Client
	channel string
	logger  *logrus.Entry
	dryRun  bool
}

// NewSlackSink builds a sink that posts to channel using token.
func NewSlackSink(token, channel string, dryRun bool) *SlackSink {
	return &SlackSink{
		api:     slack.New(token),
		channel: channel,
		logger:  logrus.WithField("client", "alert"),
		dryRun:  dryRun,
	}
}

func (s *SlackSink) Flush(ctx context.Context, b *Builder) error {
	if b.Empty() {
		return nil
	}
	blocks := b.Blocks()

	var threadTS string
	for start := 0; start < len(blocks); start += maxBlocksPerMessage {
		end := start + maxBlocksPerMessage
		if end > len(blocks) {
			end = len(blocks)
		}
		chunk := blocks[start:end]

		if s.dryRun {
			s.logger.WithField("channel", s.channel).Debugf("would post %d blocks (chunk %d-%d)", len(chunk), start, end)
			continue
		}

		opts := []slack.MsgOption{slack.MsgOptionBlocks(chunk...)}
		if threadTS != "" {
			opts = append(opts, slack.MsgOptionTS(threadTS))
		} else if b.metadata != nil {
			opts = append(opts, slack.MsgOptionMetadata(*b.metadata))
		}
		_, ts, err := s.api.PostMessageContext(ctx, s.channel, opts...)
		if err != nil {
			return fmt.Errorf("posting alert to %s: %w", s.channel, err)
		}
		if threadTS == "" {
			threadTS = ts
		}
	}
	return nil
}

// NullSink discards everything; used by tests and by callers that run
// with no alert channel configured.
type NullSink struct{}

func (NullSink) Flush(context.Context, *Builder) error { return nil }
