// Package console is the interactive front end: one request per line until "exit".
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mercari/shopper/internal/domain"
)

const (
	promptText = "Enter your request (or 'exit' to quit): "

	// MaxRequestBytes bounds one request line; longer lines are skipped, not fatal.
	MaxRequestBytes = 64 * 1024
)

// TurnHandler processes one request. It must not fail the loop.
type TurnHandler interface {
	HandleTurn(ctx context.Context, request string) *domain.Turn
}

type REPL struct {
	in       io.Reader
	out      io.Writer
	handler  TurnHandler
	renderer *Renderer
}

func NewREPL(in io.Reader, out io.Writer, handler TurnHandler) *REPL {
	return &REPL{
		in:       in,
		out:      out,
		handler:  handler,
		renderer: NewRenderer(out),
	}
}

// Run returns nil on "exit" (any case) or end of input, and ctx.Err() when cancelled.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, promptText)
		line, tooLong, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(r.out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if tooLong {
			fmt.Fprintf(r.out, "Request is longer than %d bytes and was ignored.\n\n", MaxRequestBytes)
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") {
			fmt.Fprintln(r.out, "Goodbye!")
			return nil
		}

		turn := r.handler.HandleTurn(ctx, line)
		r.renderer.Render(turn)
		fmt.Fprintln(r.out)
	}
}

// readLine reads up to the next newline. Lines over MaxRequestBytes are
// consumed in full and reported with tooLong set. io.EOF is returned only
// when no input is left.
func readLine(reader *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
		read    bool
	)

	for {
		chunk, err := reader.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}

		if !tooLong {
			buf = append(buf, chunk...)
			if len(strings.TrimRight(string(buf), "\r\n")) > MaxRequestBytes {
				tooLong = true
				buf = nil
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && read:
			return string(buf), tooLong, nil
		case err != nil:
			return "", false, err
		}

		return string(buf), tooLong, nil
	}
}
