package alert

import (
	"context"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	flushes [][]int // block counts per Flush call
}

func (r *recordingSink) Flush(_ context.Context, b *Builder) error {
	if b.Empty() {
		return nil
	}
	r.flushes = append(r.flushes, []int{len(b.Blocks())})
	return nil
}

func TestBuilder_EmptyIsNotFlushed(t *testing.T) {
	sink := &recordingSink{}
	b := NewBuilder()
	require.True(t, b.Empty())
	require.NoError(t, sink.Flush(context.Background(), b))
	assert.Empty(t, sink.flushes)
}

func TestBuilder_AppendOrderAndDivider(t *testing.T) {
	b := NewBuilder().
		Text(SeverityCritical, "Creating Team").
		Text(SeverityNormal, "Creating Repo").
		Divider()

	require.Len(t, b.Blocks(), 3)
	assert.False(t, b.Empty())
	assert.Contains(t, b.Blocks()[0].(*slack.SectionBlock).Text.Text, "Creating Team")
	assert.Contains(t, b.Blocks()[1].(*slack.SectionBlock).Text.Text, "Creating Repo")
	assert.IsType(t, &slack.DividerBlock{}, b.Blocks()[2])
}

func TestBuilder_EnforcementOutcomeSeverity(t *testing.T) {
	allow := NewBuilder().EnforcementOutcome(OutcomeAllow, "no drift detected")
	revert := NewBuilder().EnforcementOutcome(OutcomeRevert, "automatically reverted")

	require.Len(t, allow.Blocks(), 1)
	require.Len(t, revert.Blocks(), 1)
	assert.Contains(t, allow.Blocks()[0].(*slack.SectionBlock).Text.Text, SeverityNormal.emoji())
	assert.Contains(t, revert.Blocks()[0].(*slack.SectionBlock).Text.Text, SeverityCritical.emoji())
}

func TestSlackSink_DryRunFlushOfManyBlocksSucceeds(t *testing.T) {
	sink := NewSlackSink("xoxb-fake", "#sheriff", true)
	b := NewBuilder()
	for i := 0; i < 120; i++ {
		b.Text(SeverityNormal, "line")
	}
	require.NoError(t, sink.Flush(context.Background(), b))
}

func TestNullSink_Discards(t *testing.T) {
	var s Sink = NullSink{}
	require.NoError(t, s.Flush(context.Background(), NewBuilder().Text(SeverityWarning, "x")))
}
