package playback

import (
	"fmt"

	"github.com/justcode-dev/justcode/model"
)

// VariableView is one row of the rendered variable table.
type VariableView struct {
	Name  string
	Value string
	Type  string
}

// Frame is the renderable projection of one execution step.
type Frame struct {
	Index           int
	LineNumber      int
	Code            string
	Type            model.StepType
	Variables       []VariableView
	Output          *string
	ConditionResult *bool
}

// Project maps (trace, index) to a frame. It returns nil when the trace
// is empty or the index is out of bounds; it never panics and never
// mutates the trace. A step with no variables projects to an empty table
// ("no variables yet"), not an error.
func Project(trace *TraceStore, index int) *Frame {
	step, ok := trace.Step(index)
	if !ok {
		return nil
	}
	frame := &Frame{
		Index:           index,
		LineNumber:      step.LineNumber,
		Code:            step.Code,
		Type:            step.Type,
		Output:          step.Output,
		ConditionResult: step.ConditionResult,
	}
	if len(step.Variables) > 0 {
		frame.Variables = make([]VariableView, 0, len(step.Variables))
		for _, b := range step.Variables {
			frame.Variables = append(frame.Variables, VariableView{
				Name:  b.Name,
				Value: FormatValue(b.Value, b.Type),
				Type:  b.Type,
			})
		}
	}
	return frame
}

// FormatValue renders a variable value for display: string-typed values
// are quote-wrapped, everything else is shown raw.
func FormatValue(value any, semanticType string) string {
	if semanticType == "string" {
		return `"` + fmt.Sprint(value) + `"`
	}
	if value == nil {
		return "null"
	}
	return fmt.Sprint(value)
}
