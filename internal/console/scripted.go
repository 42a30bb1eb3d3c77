package console

// Scripted replays canned answers. Used in tests and unattended runs.
type Scripted struct {
	Answers   []string
	Prompts   []string
	Questions []string
}

// NewScripted returns an Interactor that answers with answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) Confirm(prompt string, options []string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	for len(s.Answers) > 0 {
		answer := s.next()
		if choice, ok := MatchOption(answer, options); ok {
			return choice, nil
		}
	}
	return "", ErrClosed
}

func (s *Scripted) Ask(question string) (string, error) {
	s.Questions = append(s.Questions, question)
	if len(s.Answers) == 0 {
		return "", ErrClosed
	}
	return s.next(), nil
}

func (s *Scripted) next() string {
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer
}

