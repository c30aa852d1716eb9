// Package filter evaluates expr-language expressions against splits.io runs.
//
// Expressions see one run at a time through a flat environment:
//
//	realtime_ms < minutes(25) && attempts > 50
//	program == "livesplit" && has_gametime
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/splitstats/splitsio"
)

// Filter is a compiled run filter
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable filter. The expression
// must produce a boolean.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // run properties are injected at evaluation time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a run
func (f *Filter) Match(run splitsio.Run) (bool, error) {
	result, err := expr.Run(f.program, runEnvironment(run))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			RunID:      run.ID,
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}
	// bool is guaranteed by AsBool() at compile time
	return result.(bool), nil
}

// Apply returns the runs matching the filter, in their original order
func (f *Filter) Apply(runs []splitsio.Run) ([]splitsio.Run, error) {
	matched := make([]splitsio.Run, 0, len(runs))
	for _, run := range runs {
		ok, err := f.Match(run)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, run)
		}
	}
	return matched, nil
}

// helperFunctions builds the static environment used for compilation
func helperFunctions() map[string]any {
	env := make(map[string]any, 8)
	addHelperFunctions(env)
	return env
}

// addHelperFunctions adds duration and string helpers to the environment
func addHelperFunctions(env map[string]any) {
	// duration helpers return milliseconds to match the *_ms properties
	env["seconds"] = func(n int) int64 {
		return int64(n) * 1000
	}
	env["minutes"] = func(n int) int64 {
		return int64(n) * 60 * 1000
	}
	env["hours"] = func(n int) int64 {
		return int64(n) * 60 * 60 * 1000
	}
	// string helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// runEnvironment builds the evaluation environment for one run
func runEnvironment(run splitsio.Run) map[string]any {
	env := make(map[string]any, 24)
	addHelperFunctions(env)

	env["id"] = run.ID
	env["realtime_ms"] = run.RealtimeDurationMS
	env["program"] = run.Program
	env["default_timing"] = run.DefaultTiming
	env["created_at"] = run.CreatedAt
	env["segment_count"] = len(run.Segments)
	env["runner_count"] = len(run.Runners)

	env["has_gametime"] = run.GametimeDurationMS != nil
	env["gametime_ms"] = int64(0)
	if run.GametimeDurationMS != nil {
		env["gametime_ms"] = *run.GametimeDurationMS
	}

	env["attempts"] = int64(0)
	if run.Attempts != nil {
		env["attempts"] = *run.Attempts
	}

	env["has_video"] = run.VideoURL != nil

	env["category"] = ""
	if run.Category != nil {
		env["category"] = run.Category.Name
	}
	env["game"] = ""
	if run.Game != nil {
		env["game"] = run.Game.Name
	}

	return env
}
