package agent

import (
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/internal/util"
)

// Provider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from the run's scratch state.
type Provider interface {
	Instruction(*core.RunState) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(*core.RunState) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(s *core.RunState) (string, error) { return f(s) }

// Instruction represents either a static instruction string or a dynamic
// provider. Static text may contain {{ }} template markers which are expanded
// against the run's scratch map on every resolve, so hook annotations from
// earlier steps can steer later prompts.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(*core.RunState) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text for the current step, invoking the
// provider or rendering the static template as appropriate.
func (i Instruction) Resolve(state *core.RunState) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(state)
	}
	return util.RenderTemplate(i.text, state.Scratch)
}
