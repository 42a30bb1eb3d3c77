package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// Terminal prompts through readline on an interactive TTY.
type Terminal struct {
	rl *readline.Instance
}

// NewTerminal returns a readline-backed Interactor when stdin is a terminal,
// and a plain Console over stdin/stdout otherwise.
func NewTerminal() (Interactor, func() error, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return New(os.Stdin, os.Stdout), func() error { return nil }, nil
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, nil, err
	}
	t := &Terminal{rl: rl}
	return t, rl.Close, nil
}

func (t *Terminal) Confirm(prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("confirm needs at least one option")
	}
	head, last := splitPrompt(prompt)
	fmt.Fprint(t.rl.Stdout(), head)
	t.rl.SetPrompt(fmt.Sprintf("%s (%s): ", last, strings.Join(options, "/")))
	for {
		line, err := t.readLine()
		if err != nil {
			return "", err
		}
		if choice, ok := MatchOption(line, options); ok {
			return choice, nil
		}
		fmt.Fprintf(t.rl.Stdout(), "Please enter one of: %s\n", strings.Join(options, ", "))
	}
}

func (t *Terminal) Ask(question string) (string, error) {
	head, last := splitPrompt(QuestionBanner(question))
	fmt.Fprint(t.rl.Stdout(), head)
	t.rl.SetPrompt(last)
	return t.readLine()
}

// splitPrompt separates a multi-line prompt into the lines printed once and
// the final line handed to readline, which redraws its prompt on every key.
func splitPrompt(prompt string) (head, last string) {
	idx := strings.LastIndex(prompt, "\n")
	return prompt[:idx+1], prompt[idx+1:]
}

func (t *Terminal) readLine() (string, error) {
	for {
		line, err := t.rl.Readline()
		switch {
		case err == nil:
			return line, nil
		case errors.Is(err, readline.ErrInterrupt):
			// ^C clears the line; the operator must still answer
			continue
		case errors.Is(err, io.EOF):
			return "", ErrClosed
		default:
			return "", err
		}
	}
}
