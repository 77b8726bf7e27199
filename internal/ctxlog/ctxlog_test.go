package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_DefaultWhenMissing(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	assert.Same(t, slog.Default(), logger)
}

func TestWith_AddsAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, nil))

	ctx := With(WithLogger(context.Background(), base), "experiment", "TDN-NoC/4/2x2/1/so")
	FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "experiment=TDN-NoC/4/2x2/1/so")
	assert.Contains(t, buf.String(), "msg=hello")
}
