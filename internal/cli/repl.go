package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/switchboard/internal/presentation/tui"
	"github.com/aretw0/switchboard/pkg/coordinator"
)

// Prompt is printed before each query.
const Prompt = "Query> "

// ExitWords end an interactive session.
var ExitWords = map[string]bool{"exit": true, "quit": true, "q": true, "bye": true}

// Processor answers one query.
type Processor interface {
	Process(ctx context.Context, query string) coordinator.Outcome
}

// RunREPL reads one query per line from in until an exit word, EOF or ctx is
// done. Each query is answered fully before the next is read; a bad query is
// reported and the loop continues.
func RunREPL(ctx context.Context, in io.Reader, promptOut io.Writer, p *tui.Printer, proc Processor) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		fmt.Fprint(promptOut, Prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(promptOut)
			p.Info("Goodbye!")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(promptOut)
				select {
				case err := <-readErr:
					return fmt.Errorf("error reading input: %w", err)
				default:
				}
				p.Info("Goodbye!")
				return nil
			}
			query, err := SanitizeInput(line)
			if err != nil {
				p.Error(err)
				continue
			}
			if query == "" {
				continue
			}
			if ExitWords[strings.ToLower(query)] {
				p.Info("Goodbye!")
				return nil
			}
			PrintOutcome(p, proc.Process(ctx, query))
		}
	}
}

// Ask answers a single query.
func Ask(ctx context.Context, p *tui.Printer, proc Processor, query string) error {
	query, err := SanitizeInput(query)
	if err != nil {
		return err
	}
	if query == "" {
		return errors.New("empty query")
	}
	PrintOutcome(p, proc.Process(ctx, query))
	return nil
}

// PrintOutcome prints the routing line and the composed answer.
func PrintOutcome(p *tui.Printer, o coordinator.Outcome) {
	route := fmt.Sprintf("[%s] %s", o.Domain, o.Extraction.Operation)
	if !o.Result.OK() {
		route += fmt.Sprintf(" (%s)", o.Result.Kind())
	}
	p.Info("%s", route)
	p.Answer(o.Answer)
}
