package tools

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Args are the string arguments of a tool call keyed by parameter name.
type Args map[string]string

// Param declares one string parameter. Every parameter is required.
type Param struct {
	Name        string
	Description string
}

// Tool describes a callable tool.
type Tool interface {
	Name() string
	Description() string
	Params() []Param
	Execute(ctx context.Context, args Args) (string, error)
}

// Descriptor is the catalog entry presented to the model.
type Descriptor struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Parameters  map[string]any `json:"parameters" yaml:"parameters"`
}

// Failure is an expected tool outcome reported to the model as Message.
// Cause stays available for logging.
type Failure struct {
	Message string
	Cause   error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Cause }

func fail(cause error, format string, args ...any) error {
	return &Failure{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Schema builds the JSON schema object for a parameter list.
func Schema(params []Param) map[string]any {
	properties := make(map[string]any, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		properties[p.Name] = map[string]any{"type": "string", "description": p.Description}
		required = append(required, p.Name)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// Describe returns the catalog descriptor of t.
func Describe(t Tool) Descriptor {
	return Descriptor{Name: t.Name(), Description: t.Description(), Parameters: Schema(t.Params())}
}

func decodeArgs(args Args, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "arg", Result: out})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]string(args))
}
