package dialogue

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// Port asks the user a question and returns the answer. Returning io.EOF
// means no more input will come.
type Port interface {
	Ask(ctx context.Context, q Question) (string, error)
}

// Notifier is an optional Port extension for messages that need no answer.
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

// Run drives s over a blocking port until it is done.
func Run(ctx context.Context, port Port, s *Session) (Outcome, error) {
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		answer, err := port.Ask(ctx, s.Prompt())
		if errors.Is(err, io.EOF) {
			s.Finish()
			break
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to read answer: %w", err)
		}

		if err := s.Answer(answer); err != nil {
			if !errors.Is(err, ErrInvalidSymptom) {
				return Outcome{}, err
			}
			if n, ok := port.(Notifier); ok {
				if err := n.Notify(ctx, "Please enter a symptom using letters, digits and spaces only."); err != nil {
					return Outcome{}, err
				}
			}
		}
	}

	out, _ := s.Result()
	return out, nil
}

// LinePort asks questions on w and reads one line per answer from r.
type LinePort struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewLinePort creates a line-oriented port, e.g. over stdin and stdout.
func NewLinePort(r io.Reader, w io.Writer) *LinePort {
	return &LinePort{in: bufio.NewScanner(r), out: w}
}

// Ask writes the question text and reads the next line.
func (p *LinePort) Ask(ctx context.Context, q Question) (string, error) {
	if _, err := fmt.Fprintln(p.out, q.Text); err != nil {
		return "", err
	}
	return p.ReadLine()
}

// ReadLine returns the next input line, or io.EOF when input ends.
func (p *LinePort) ReadLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}

// Notify writes msg on its own line.
func (p *LinePort) Notify(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(p.out, msg)
	return err
}
