package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputClosed indicates stdin reached EOF while waiting for the operator.
var ErrInputClosed = errors.New("input closed")

// Prompter asks the operator for input.
type Prompter interface {
	// Edit shows current and returns the operator's replacement.
	// An empty answer keeps current.
	Edit(ctx context.Context, current string) (string, error)

	// WaitForEnter shows msg and blocks until the operator presses Enter.
	WaitForEnter(ctx context.Context, msg string) error
}

type lineResult struct {
	line string
	err  error
}

// LinePrompter reads one line of input per question.
// Reads happen on a single background goroutine so that a blocked read
// can be abandoned when the context is cancelled.
type LinePrompter struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan lineResult
}

// NewLinePrompter creates a prompter reading from in and writing prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: in, out: out}
}

// Edit implements Prompter. EOF keeps current.
func (p *LinePrompter) Edit(ctx context.Context, current string) (string, error) {
	fmt.Fprintf(p.out, "Commit message: %s\n", current)
	fmt.Fprint(p.out, "Press Enter to keep it, or type a new message: ")

	line, err := p.readLine(ctx)
	if errors.Is(err, ErrInputClosed) {
		fmt.Fprintln(p.out)
		return current, nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "" {
		return current, nil
	}
	return line, nil
}

// WaitForEnter implements Prompter. EOF is an error so an unattended run
// does not continue as if the operator confirmed.
func (p *LinePrompter) WaitForEnter(ctx context.Context, msg string) error {
	fmt.Fprintf(p.out, "%s ", msg)
	_, err := p.readLine(ctx)
	if errors.Is(err, ErrInputClosed) {
		fmt.Fprintln(p.out)
	}
	return err
}

func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(p.startReader)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return res.line, res.err
	}
}

func (p *LinePrompter) startReader() {
	p.lines = make(chan lineResult)
	go func() {
		defer close(p.lines)
		r := bufio.NewReader(p.in)
		for {
			line, err := r.ReadString('\n')
			if line != "" || err == nil {
				p.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					p.lines <- lineResult{err: fmt.Errorf("read input: %w", err)}
				}
				return
			}
		}
	}()
}

// AcceptingPrompter keeps every suggested commit message without reading
// input. WaitForEnter still needs the operator and goes to Confirm.
// It backs the --yes flag.
type AcceptingPrompter struct {
	Out     io.Writer // Optional; receives the accepted message
	Confirm Prompter  // Answers WaitForEnter; nil fails with ErrInputClosed
}

// Edit implements Prompter by keeping current.
func (p AcceptingPrompter) Edit(_ context.Context, current string) (string, error) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, "Commit message: %s\n", current)
	}
	return current, nil
}

// WaitForEnter implements Prompter by delegating to Confirm.
func (p AcceptingPrompter) WaitForEnter(ctx context.Context, msg string) error {
	if p.Confirm == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrInputClosed
	}
	return p.Confirm.WaitForEnter(ctx, msg)
}

// ScriptedPrompter replays canned answers for tests.
type ScriptedPrompter struct {
	mu sync.Mutex

	EditAnswers []string // Consumed in order; "" keeps the current message
	EditErr     error
	WaitErr     error

	Edited []string // Messages passed to Edit
	Waits  []string // Messages passed to WaitForEnter
}

// Edit implements Prompter.
func (p *ScriptedPrompter) Edit(_ context.Context, current string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Edited = append(p.Edited, current)
	if p.EditErr != nil {
		return "", p.EditErr
	}
	if len(p.EditAnswers) == 0 {
		return current, nil
	}
	answer := p.EditAnswers[0]
	p.EditAnswers = p.EditAnswers[1:]
	if strings.TrimSpace(answer) == "" {
		return current, nil
	}
	return answer, nil
}

// WaitForEnter implements Prompter.
func (p *ScriptedPrompter) WaitForEnter(_ context.Context, msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Waits = append(p.Waits, msg)
	return p.WaitErr
}
