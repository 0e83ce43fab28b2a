package cli

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
}

func TestInterruptHandler_NilWriterDefaultsToStdout(t *testing.T) {
	h := NewInterruptHandler(nil)
	assert.Equal(t, os.Stdout, h.out)
	assert.False(t, h.WasInterrupted())
}

func TestInterruptHandler_ParentCancelIsSilent(t *testing.T) {
	var out bytes.Buffer
	h := NewInterruptHandler(&out)

	parent, cancel := context.WithCancel(context.Background())
	ctx := h.HandleInterrupts(parent, "alice")
	require.NoError(t, ctx.Err())

	cancel()
	waitDone(t, ctx)

	assert.False(t, h.WasInterrupted())
	assert.Empty(t, out.String())
}

func TestInterruptHandler_SignalCancelsAndSaysGoodbye(t *testing.T) {
	tests := []struct {
		name    string
		account string
		want    []string
		notWant string
	}{
		{
			name:    "named account",
			account: "alice",
			want:    []string{"Session interrupted!", "already stored", "carbon summary --account alice", "Goodbye!"},
		},
		{
			name:    "no account",
			want:    []string{"Session interrupted!", "Goodbye!"},
			notWant: "carbon summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			h := NewInterruptHandler(&out)
			ctx := h.HandleInterrupts(context.Background(), tt.account)

			h.signals <- os.Interrupt
			waitDone(t, ctx)

			assert.True(t, h.WasInterrupted())
			for _, s := range tt.want {
				assert.Contains(t, out.String(), s)
			}
			if tt.notWant != "" {
				assert.NotContains(t, out.String(), tt.notWant)
			}
		})
	}
}
