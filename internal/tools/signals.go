package tools

import (
	"context"

	"autopilot/internal/console"
)

// FinishedSignal is returned by project_finished. The agent loop stops
// when it sees it.
const FinishedSignal = "PROJECT_FINISHED"

// AskClarificationTool forwards a question to the operator.
type AskClarificationTool struct {
	gate console.Interactor
}

func (AskClarificationTool) Name() string { return "ask_clarification" }

func (AskClarificationTool) Description() string {
	return "Ask the user a clarifying question about the project. Returns the answer by the user as string"
}

func (AskClarificationTool) Params() []Param {
	return []Param{{Name: "question", Description: "The question to ask the user"}}
}

func (t AskClarificationTool) Execute(ctx context.Context, args Args) (string, error) {
	var in struct {
		Question string `arg:"question"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	return t.gate.Ask(in.Question)
}

// ProjectFinishedTool signals the end of the work.
type ProjectFinishedTool struct{}

func (ProjectFinishedTool) Name() string { return "project_finished" }

func (ProjectFinishedTool) Description() string {
	return "Call this function when the project is finished"
}

func (ProjectFinishedTool) Params() []Param {
	return []Param{{Name: "finished", Description: "Set this to 'finished' always"}}
}

func (ProjectFinishedTool) Execute(ctx context.Context, args Args) (string, error) {
	return FinishedSignal, nil
}
