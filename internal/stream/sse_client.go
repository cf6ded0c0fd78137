package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// SSEClient consumes one server-sent-event stream and emits each
// event's data payload as a frame. Transport recovery lives here, not
// in the Adapter: on disconnect the client reconnects with exponential
// backoff and re-attaches the same subscription, so the consumer keeps
// reading from the same channel across reconnects.
type SSEClient struct {
	session *http.Client
	url     string
}

func NewSSEClient(url string) *SSEClient {
	return &SSEClient{
		session: &http.Client{
			// No overall timeout; the stream is long-lived. Connection
			// setup is bounded per attempt via the request context.
			Timeout: 0,
		},
		url: url,
	}
}

// Frames connects to the stream and returns the frame channel. The
// channel closes when ctx is cancelled.
func (c *SSEClient) Frames(ctx context.Context) <-chan []byte {
	frames := make(chan []byte, 64)

	go func() {
		defer close(frames)

		backoff := 200 * time.Millisecond
		const maxBackoff = 10 * time.Second

		for {
			if err := ctx.Err(); err != nil {
				return
			}

			err := c.readStream(ctx, frames)
			if err == nil || ctx.Err() != nil {
				return
			}
			log.Printf("telemetry stream disconnected url=%s err=%v retry_in=%s", c.url, err, backoff)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}()

	return frames
}

// readStream holds one connection open and forwards data lines until
// the server closes it or ctx is cancelled. A nil return means ctx
// ended the stream deliberately.
func (c *SSEClient) readStream(ctx context.Context, frames chan<- []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.session.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			// Comments, event names and blank keep-alive lines.
			continue
		}

		select {
		case frames <- []byte(data):
		case <-ctx.Done():
			return nil
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return fmt.Errorf("stream closed by server")
}
