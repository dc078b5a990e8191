package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/arsipa/arsipa/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	n := &Noop{}
	doc := &core.Document{Id: 1, Title: "anything"}

	require.NoError(t, n.DocumentAccepted(context.Background(), doc))
	require.NoError(t, n.DocumentRejected(context.Background(), doc))
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	n := NewLogNotifier(logger)
	doc := &core.Document{
		Id:              7,
		Title:           "Thesis on Logging",
		Owner:           "owner@example.ac.id",
		RejectionReason: "missing chapter",
	}

	require.NoError(t, n.DocumentAccepted(context.Background(), doc))
	assert.Contains(t, buf.String(), "document accepted")
	assert.Contains(t, buf.String(), "owner@example.ac.id")

	buf.Reset()
	require.NoError(t, n.DocumentRejected(context.Background(), doc))
	assert.Contains(t, buf.String(), "document rejected")
	assert.Contains(t, buf.String(), "missing chapter")
}

func TestNewLogNotifier_NilLogger(t *testing.T) {
	n := NewLogNotifier(nil)
	require.NotNil(t, n)
	require.NoError(t, n.DocumentAccepted(context.Background(), &core.Document{Id: 1}))
}
