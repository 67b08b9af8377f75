package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/schema"
)

// Terminal is the default Prompter: plain line-oriented prompts on a TTY,
// styled through the active theme. Input is read by a pump goroutine so a
// blocking ask can still be cancelled by the signal context.
type Terminal struct {
	source io.Reader
	reader *bufio.Reader
	out    io.Writer
	theme  Theme

	// fd is the stdin descriptor when reading from a real terminal; used
	// for masked password input. -1 otherwise.
	fd int

	// renderMarkdown renders flow descriptions and info bodies; defaults
	// to the glamour-backed renderer.
	renderMarkdown func(string) (string, error)

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithTheme selects the prompt palette.
func WithTheme(theme Theme) TerminalOption {
	return func(t *Terminal) {
		t.theme = theme
	}
}

// WithMarkdownRenderer overrides the renderer used for descriptions.
func WithMarkdownRenderer(render func(string) (string, error)) TerminalOption {
	return func(t *Terminal) {
		t.renderMarkdown = render
	}
}

// NewTerminal creates a terminal prompter over the given streams. Nil
// arguments fall back to Stdin/Stdout.
func NewTerminal(in io.Reader, out io.Writer, opts ...TerminalOption) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	t := &Terminal{
		source:         in,
		reader:         bufio.NewReader(in),
		out:            out,
		theme:          NewTheme("default"),
		fd:             -1,
		renderMarkdown: tui.NewRenderer(),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Say emits a plain informational line.
func (t *Terminal) Say(message string) {
	fmt.Fprintln(t.out, message)
}

// Banner renders the flow header: icon and title between dash bars, with
// the description underneath.
func (t *Terminal) Banner(icon, title, description string) {
	if icon == "" {
		icon = "🔧"
	}
	header := fmt.Sprintf("%s %s", icon, title)
	bar := strings.Repeat("-", len([]rune(header)))
	fmt.Fprintf(t.out, "\n%s\n%s\n%s\n", bar, t.theme.Question(header), bar)
	if description != "" {
		if rendered, err := t.renderMarkdown(description); err == nil {
			fmt.Fprint(t.out, rendered)
		} else {
			fmt.Fprintf(t.out, "   %s\n", t.theme.Instruction(description))
		}
	}
}

// Ask collects one answer. The switch over question kinds is exhaustive:
// an unknown kind is a programming error, not user input to recover from.
func (t *Terminal) Ask(ctx context.Context, q Question) (any, error) {
	if q.Instruction != "" && q.Kind != schema.StepInfo {
		fmt.Fprintln(t.out, t.theme.Instruction(q.Instruction))
	}

	switch q.Kind {
	case schema.StepText:
		return t.askText(ctx, q)
	case schema.StepPassword:
		return t.askPassword(ctx, q)
	case schema.StepConfirm:
		return t.askConfirm(ctx, q)
	case schema.StepSelect:
		return t.askSelect(ctx, q)
	case schema.StepMultiSelect:
		return t.askMultiSelect(ctx, q)
	case schema.StepInfo:
		return t.showInfo(ctx, q)
	default:
		return nil, fmt.Errorf("unsupported question kind %q", q.Kind)
	}
}

func (t *Terminal) askText(ctx context.Context, q Question) (any, error) {
	def, _ := q.Default.(string)
	for {
		t.printPrompt(q.Message, def)
		line, err := t.readLine(ctx)
		if err != nil {
			return nil, err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = def
		}
		if err := t.check(q.Validate, answer); err != nil {
			continue
		}
		return answer, nil
	}
}

func (t *Terminal) askPassword(ctx context.Context, q Question) (any, error) {
	for {
		fmt.Fprintf(t.out, "%s ", t.theme.Question("? "+q.Message))
		line, err := t.readSecret(ctx)
		if err != nil {
			return nil, err
		}
		if err := t.check(q.Validate, line); err != nil {
			continue
		}
		return line, nil
	}
}

func (t *Terminal) askConfirm(ctx context.Context, q Question) (any, error) {
	def := true
	if b, ok := q.Default.(bool); ok {
		def = b
	}
	hint := "(Y/n)"
	if !def {
		hint = "(y/N)"
	}

	for {
		fmt.Fprintf(t.out, "%s %s ", t.theme.Question("? "+q.Message), hint)
		line, err := t.readLine(ctx)
		if err != nil {
			return nil, err
		}
		clean := strings.ToLower(strings.TrimSpace(line))
		switch clean {
		case "":
			return def, nil
		case "y", "yes", "true", "1":
			return true, nil
		case "n", "no", "false", "0":
			return false, nil
		}
		fmt.Fprintln(t.out, t.theme.Error("Please answer yes or no."))
	}
}

func (t *Terminal) askSelect(ctx context.Context, q Question) (any, error) {
	fmt.Fprintln(t.out, t.theme.Question("? "+q.Message))
	defaultIndex := t.printChoices(q)

	for {
		fmt.Fprintf(t.out, "%s ", t.theme.Pointer(">"))
		line, err := t.readLine(ctx)
		if err != nil {
			return nil, err
		}
		clean := strings.TrimSpace(line)
		if clean == "" && defaultIndex >= 0 {
			return q.Choices[defaultIndex].AnswerValue(), nil
		}
		if idx, err := strconv.Atoi(clean); err == nil && idx >= 1 && idx <= len(q.Choices) {
			return q.Choices[idx-1].AnswerValue(), nil
		}
		// Names are accepted as well, for muscle memory from other tools.
		for _, c := range q.Choices {
			if clean == c.Name {
				return c.AnswerValue(), nil
			}
		}
		fmt.Fprintln(t.out, t.theme.Error(fmt.Sprintf("Enter a number between 1 and %d.", len(q.Choices))))
	}
}

func (t *Terminal) askMultiSelect(ctx context.Context, q Question) (any, error) {
	fmt.Fprintln(t.out, t.theme.Question("? "+q.Message))
	t.printChoices(q)
	fmt.Fprintln(t.out, t.theme.Instruction("  (comma-separated numbers, empty for none)"))

	for {
		fmt.Fprintf(t.out, "%s ", t.theme.Pointer(">"))
		line, err := t.readLine(ctx)
		if err != nil {
			return nil, err
		}
		clean := strings.TrimSpace(line)
		if clean == "" {
			return []any{}, nil
		}

		var picked []any
		valid := true
		for _, part := range strings.Split(clean, ",") {
			idx, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || idx < 1 || idx > len(q.Choices) {
				valid = false
				break
			}
			picked = append(picked, q.Choices[idx-1].AnswerValue())
		}
		if !valid {
			fmt.Fprintln(t.out, t.theme.Error(fmt.Sprintf("Enter numbers between 1 and %d, separated by commas.", len(q.Choices))))
			continue
		}
		return picked, nil
	}
}

// showInfo renders an info step. With a title it is a non-interactive
// section header; without one it waits for Enter.
func (t *Terminal) showInfo(ctx context.Context, q Question) (any, error) {
	if q.Title != "" {
		icon := q.Icon
		if icon == "" {
			icon = "🔧"
		}
		bar := strings.Repeat("-", 30)
		fmt.Fprintf(t.out, "\n%s\n%s\n%s\n", bar, t.theme.Question(fmt.Sprintf("%s %s", icon, q.Title)), bar)
		if q.Message != "" {
			fmt.Fprintf(t.out, "   %s\n", t.theme.Instruction(q.Message))
		}
		return true, nil
	}

	instruction := q.Instruction
	if instruction == "" {
		instruction = "Press Enter to continue"
	}
	if q.Message != "" {
		fmt.Fprintln(t.out, q.Message)
	}
	fmt.Fprintf(t.out, "%s ", t.theme.Instruction(instruction))
	if _, err := t.readLine(ctx); err != nil {
		return nil, err
	}
	return true, nil
}

func (t *Terminal) printPrompt(message, def string) {
	if def != "" {
		fmt.Fprintf(t.out, "%s (%s) ", t.theme.Question("? "+message), def)
		return
	}
	fmt.Fprintf(t.out, "%s ", t.theme.Question("? "+message))
}

// printChoices renders the numbered list and returns the index of the
// default choice, or -1. Defaults match against values first, then names.
func (t *Terminal) printChoices(q Question) int {
	defaultIndex := -1
	for i, c := range q.Choices {
		marker := " "
		if matchesDefault(c, q.Default) {
			marker = t.theme.Pointer("*")
			defaultIndex = i
		}
		fmt.Fprintf(t.out, "  %s %d) %s\n", marker, i+1, c.Name)
	}
	return defaultIndex
}

func matchesDefault(c schema.Choice, def any) bool {
	if def == nil {
		return false
	}
	if c.HasValue && c.Value == def {
		return true
	}
	name, ok := def.(string)
	return ok && c.Name == name
}

func (t *Terminal) check(validate ValidatorFunc, input string) error {
	if validate == nil {
		return nil
	}
	if err := validate(input); err != nil {
		fmt.Fprintln(t.out, t.theme.Error(err.Error()))
		return err
	}
	return nil
}

func (t *Terminal) initPump() {
	t.startOnce.Do(func() {
		t.inputChan = make(chan inputResult)
		go t.pump()
	})
}

func (t *Terminal) pump() {
	for {
		text, err := t.reader.ReadString('\n')
		if text != "" {
			t.inputChan <- inputResult{text: strings.TrimRight(text, "\r\n")}
		}
		if err != nil {
			if err == io.EOF {
				close(t.inputChan)
				return
			}
			t.inputChan <- inputResult{err: err}
		}
	}
}

// readLine blocks until a line arrives or the context is cancelled.
// A closed input stream is normalized to an interrupt: some environments
// deliver Ctrl+C as EOF on stdin before the signal context fires.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	t.initPump()
	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res, ok := <-t.inputChan:
		if !ok {
			return "", ErrInterrupted
		}
		if res.err != nil {
			return "", res.err
		}
		return res.text, nil
	}
}

// readSecret reads without echo when stdin is a real terminal, falling
// back to a plain line read otherwise (tests, pipes).
func (t *Terminal) readSecret(ctx context.Context) (string, error) {
	if t.fd < 0 {
		return t.readLine(ctx)
	}

	type secretResult struct {
		text string
		err  error
	}
	ch := make(chan secretResult, 1)
	go func() {
		raw, err := term.ReadPassword(t.fd)
		ch <- secretResult{text: string(raw), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res := <-ch:
		fmt.Fprintln(t.out)
		if res.err != nil {
			return "", ErrInterrupted
		}
		return res.text, nil
	}
}
