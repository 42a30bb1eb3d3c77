package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed is returned when the operator input stream ends.
var ErrClosed = errors.New("console input closed")

// Interactor is the human on the other side of the tools. Both calls block
// until the operator answers.
type Interactor interface {
	// Confirm shows prompt with options and returns one of options.
	Confirm(prompt string, options []string) (string, error)
	// Ask returns the operator's free-text answer to question.
	Ask(question string) (string, error)
}

// Console prompts over a plain reader/writer pair.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Console reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Confirm(prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("confirm needs at least one option")
	}
	for {
		fmt.Fprintf(c.out, "%s (%s): ", prompt, strings.Join(options, "/"))
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if choice, ok := MatchOption(line, options); ok {
			return choice, nil
		}
		fmt.Fprintf(c.out, "Please enter one of: %s\n", strings.Join(options, ", "))
	}
}

func (c *Console) Ask(question string) (string, error) {
	fmt.Fprint(c.out, QuestionBanner(question))
	return c.readLine()
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrClosed
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// MatchOption maps raw input to one of options, ignoring case and
// surrounding whitespace.
func MatchOption(input string, options []string) (string, bool) {
	normalized := strings.TrimSpace(input)
	if normalized == "" {
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(normalized, opt) {
			return opt, true
		}
	}
	return "", false
}

// QuestionBanner formats a clarification question for the operator.
func QuestionBanner(question string) string {
	return fmt.Sprintf("## The model asks a question ##\n```%s```\nAnswer: ", question)
}
