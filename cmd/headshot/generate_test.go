package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fpang/ai-headshot-pro/internal/generation"
	"github.com/fpang/ai-headshot-pro/internal/ingest"
	"github.com/fpang/ai-headshot-pro/internal/session"
)

// blockingSubmitter holds every request until its context ends.
type blockingSubmitter struct {
	started  chan struct{}
	canceled chan error
}

func (b *blockingSubmitter) Submit(ctx context.Context, req *generation.Request) (*generation.Image, error) {
	close(b.started)
	<-ctx.Done()
	b.canceled <- ctx.Err()
	return nil, ctx.Err()
}

func TestAwaitResult_InterruptCancelsRequest(t *testing.T) {
	sub := &blockingSubmitter{started: make(chan struct{}), canceled: make(chan error, 1)}
	sess := session.New(sub, nil)

	asset := &ingest.ImageAsset{Name: "me.jpg", MIMEType: "image/jpeg", Raw: []byte{0xFF, 0xD8}, Encoded: "/9g="}
	if err := sess.Ingest(asset); err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}
	if err := sess.Generate(); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	<-sub.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := awaitResult(ctx, sess); !errors.Is(err, context.Canceled) {
		t.Fatalf("awaitResult() error = %v, want Canceled", err)
	}

	select {
	case err := <-sub.canceled:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("request ctx error = %v, want Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request was not canceled")
	}

	if err := sess.Generate(); !errors.Is(err, session.ErrClosed) {
		t.Errorf("Generate() after interrupt error = %v, want ErrClosed", err)
	}
}
