// Package alert builds and ships the block-formatted messages the
// reconciler and webhook enforcement engine raise when they mutate,
// refuse to mutate, or observe a policy violation (§4.1 item 4, §4.7).
package alert

import (
	"fmt"

	"github.com/slack-go/slack"
)

// Severity classifies how urgently an alert needs a human's
// attention.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) emoji() string {
	switch s {
	case SeverityCritical:
		return ":red_circle:"
	case SeverityWarning:
		return ":warning:"
	default:
		return ":information_source:"
	}
}

// Outcome is the three-valued result of the webhook enforcement
// engine's classification of an incoming event (§4.7).
type Outcome string

const (
	OutcomeAllow  Outcome = "ALLOW"
	OutcomeRevert Outcome = "REVERT"
	OutcomeAdjust Outcome = "ADJUST"
)

// Builder is an append-only block assembler. Nothing is sent until
// Flush is called on the Sink with the accumulated blocks; a Builder
// is single-use and not safe for concurrent writes.
type Builder struct {
	blocks   []slack.Block
	metadata *slack.SlackMetadata
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Text appends a severity-annotated markdown text block.
func (b *Builder) Text(severity Severity, text string) *Builder {
	msg := fmt.Sprintf("%s %s", severity.emoji(), text)
	b.blocks = append(b.blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, msg, false, false), nil, nil))
	return b
}

// Divider appends a visual separator, used between independent
// entities in the same flush (§8.1 scenario 1 expects a trailing
// divider block).
func (b *Builder) Divider() *Builder {
	b.blocks = append(b.blocks, slack.NewDividerBlock())
	return b
}

// ContextLines appends a context block of small-print lines, used for
// supplementary detail (event payload summaries, diff hunks) that
// shouldn't compete visually with the primary message.
func (b *Builder) ContextLines(lines ...string) *Builder {
	if len(lines) == 0 {
		return b
	}
	var elems []slack.MixedElement
	for _, l := range lines {
		elems = append(elems, slack.NewTextBlockObject(slack.MarkdownType, l, false, false))
	}
	b.blocks = append(b.blocks, slack.NewContextBlock("", elems...))
	return b
}

// UserBlock appends a block naming a platform login, used when an
// alert concerns a specific user (invitation failure, collaborator
// escalation).
func (b *Builder) UserBlock(login string) *Builder {
	return b.Text(SeverityNormal, fmt.Sprintf("User: `%s`", login))
}

// RepoBlock appends a block naming an org/repo pair.
func (b *Builder) RepoBlock(org, repo string) *Builder {
	return b.Text(SeverityNormal, fmt.Sprintf("Repository: `%s/%s`", org, repo))
}

// EnforcementOutcome appends the enforcement-outcome annotation the
// webhook engine attaches to every non-ALLOW alert (§4.7.1): "outcome"
// is one of ALLOW/REVERT/ADJUST and detail is the human-readable
// description ("automatically reverted", "adjusted to expected state
// `write`").
func (b *Builder) EnforcementOutcome(outcome Outcome, detail string) *Builder {
	severity := SeverityNormal
	if outcome != OutcomeAllow {
		severity = SeverityCritical
	}
	return b.Text(severity, fmt.Sprintf("Enforcement outcome: *%s* — %s", outcome, detail))
}

// EventMetadata attaches the originating webhook event as message
// metadata (§4.7, "every outgoing alert includes the raw event payload
// as message metadata"). eventType is the webhook's X-GitHub-Event
// value; fields is the decoded payload, sent verbatim as Slack event
// payload fields.
func (b *Builder) EventMetadata(eventType string, fields map[string]interface{}) *Builder {
	b.metadata = &slack.SlackMetadata{
		EventType:    eventType,
		EventPayload: fields,
	}
	return b
}

// Blocks returns the accumulated blocks in append order.
func (b *Builder) Blocks() []slack.Block {
	return b.blocks
}

// Metadata returns the event metadata attached via EventMetadata, or
// nil if none was attached.
func (b *Builder) Metadata() *slack.SlackMetadata {
	return b.metadata
}

// Empty reports whether nothing has been appended yet.
func (b *Builder) Empty() bool {
	return len(b.blocks) == 0
}
