package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewHTTPServer(Options{Address: "127.0.0.1:0"}, logging.Nop(), &fakeUsage{}, &fakeAnalyzer{}, nil)
	assert.Equal(t, 10*time.Second, s.shutdownTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	s := NewHTTPServer(Options{Address: "256.0.0.1:bad"}, logging.Nop(), &fakeUsage{}, &fakeAnalyzer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.Error(t, s.Run(ctx))
}
