package events

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/anicoll/as3935-integration/internal/pkg/model"
)

const maxSSELine = 64 * 1024

// ReadSSE parses a text/event-stream from r and calls fn once per event.
// Multiple data lines are joined with a newline. Comments, id and retry
// fields are ignored. It returns nil at EOF or when ctx is cancelled.
func ReadSSE(ctx context.Context, r io.Reader, fn func(model.Event)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxSSELine)

	var (
		name string
		data []string
	)
	flush := func() {
		if len(data) == 0 {
			name = ""
			return
		}
		fn(model.Event{
			Source:   model.SourceSSE,
			Name:     name,
			Payload:  []byte(strings.Join(data, "\n")),
			Received: time.Now(),
		})
		name, data = "", nil
	}

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	flush()
	return nil
}
