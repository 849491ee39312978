package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// Run reads one prompt per line from in until EOF or ctx is done.
// Cancellation is honoured while waiting for input. The reader goroutine stays
// blocked on in until the next line or EOF.
func Run(ctx context.Context, in io.Reader, session *Session, renderer *Renderer) error {
	lines, readErr := readLines(ctx, in)
	renderer.Prompt()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}

			input := strings.TrimRight(line, "\r")
			if input != "" {
				renderer.Sending()
				turn, err := session.Submit(ctx, input)
				switch {
				case err == nil:
					renderer.Turn(turn)
				case errors.Is(err, context.Canceled):
					return err
				default:
					renderer.Error(session.ErrorMessage())
				}
			}
			renderer.Prompt()
		}
	}
}

func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
