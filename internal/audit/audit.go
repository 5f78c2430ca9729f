// Package audit runs Lua-scripted board game simulations. A rules script
// returns a table with three functions and the harness plays it out N times
// with seeded randomness, collecting win/draw/turn statistics:
//
//	return {
//	    setup = function(seed) ... return state end,
//	    turn = function(state, n) ... return state end,
//	    outcome = function(state) return nil | "draw" | "<winner>" end,
//	}
//
// Scripts draw randomness from the provided random(n) global so playouts
// with the same seed reproduce exactly.
package audit

import (
	"fmt"
	"math/rand"

	"github.com/Shopify/go-lua"
	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

const (
	// MaxRuns bounds a single audit request.
	MaxRuns = 10000
	// maxTurns aborts playouts whose outcome function never settles.
	maxTurns = 1000
)

// DrawOutcome is the outcome string scripts return for a drawn game.
const DrawOutcome = "draw"

// Report aggregates the playout results of one audit run.
type Report struct {
	Runs       int            `json:"runs"`
	Wins       map[string]int `json:"wins"`
	Draws      int            `json:"draws"`
	Unfinished int            `json:"unfinished"`
	AvgTurns   float64        `json:"avg_turns"`
	MinTurns   int            `json:"min_turns"`
	MaxTurns   int            `json:"max_turns"`
}

// Run plays the rules script out runs times. Playout i seeds its random
// source with seed+i, so a report is reproducible from (script, runs, seed).
func Run(script string, runs int, seed int64) (Report, error) {
	if runs < 1 || runs > MaxRuns {
		return Report{}, apperrors.WithMetadata(apperrors.CodeAuditRunsOutOfRange,
			fmt.Sprintf("runs must be between 1 and %d", MaxRuns),
			map[string]string{"runs": fmt.Sprintf("%d", runs)})
	}

	report := Report{Runs: runs, Wins: make(map[string]int)}
	for i := 0; i < runs; i++ {
		playoutSeed := seed + int64(i)
		outcome, turns, err := playout(script, playoutSeed)
		if err != nil {
			return Report{}, err
		}

		switch outcome {
		case "":
			report.Unfinished++
		case DrawOutcome:
			report.Draws++
		default:
			report.Wins[outcome]++
		}

		report.AvgTurns += float64(turns)
		if i == 0 || turns < report.MinTurns {
			report.MinTurns = turns
		}
		if turns > report.MaxTurns {
			report.MaxTurns = turns
		}
	}
	report.AvgTurns /= float64(runs)
	return report, nil
}

// Validate loads the script and checks its shape without playing it out.
func Validate(script string) error {
	l := lua.NewState()
	lua.OpenLibraries(l)
	registerRandom(l, rand.New(rand.NewSource(0)))
	_, err := loadRules(l, script)
	return err
}

// playout runs a single seeded game and reports its outcome string ("" when
// the turn cap was reached) and how many turns it took.
func playout(script string, seed int64) (string, int, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	registerRandom(l, rand.New(rand.NewSource(seed)))

	rulesIndex, err := loadRules(l, script)
	if err != nil {
		return "", 0, err
	}

	// setup(seed) -> state, kept on top of the stack between calls.
	l.Field(rulesIndex, "setup")
	l.PushInteger(int(seed))
	if err := l.ProtectedCall(1, 1, 0); err != nil {
		return "", 0, scriptError("setup failed", err)
	}

	for turn := 1; turn <= maxTurns; turn++ {
		// outcome(state) -> nil | string
		l.Field(rulesIndex, "outcome")
		l.PushValue(-2)
		if err := l.ProtectedCall(1, 1, 0); err != nil {
			return "", 0, scriptError("outcome failed", err)
		}
		if l.TypeOf(-1) != lua.TypeNil {
			outcome, ok := l.ToString(-1)
			if !ok {
				return "", 0, apperrors.New(apperrors.CodeAuditScriptInvalid,
					"outcome must return nil or a string")
			}
			return outcome, turn - 1, nil
		}
		l.Pop(1)

		// turn(state, n) -> state
		l.Field(rulesIndex, "turn")
		l.PushValue(-2)
		l.PushInteger(turn)
		if err := l.ProtectedCall(2, 1, 0); err != nil {
			return "", 0, scriptError("turn failed", err)
		}
		l.Remove(-2)
	}
	return "", maxTurns, nil
}

// loadRules compiles and runs the script, leaving the rules table on the
// stack and returning its index after checking the three required functions.
func loadRules(l *lua.State, script string) (int, error) {
	if err := lua.LoadString(l, script); err != nil {
		return 0, scriptError("script does not compile", err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return 0, scriptError("script failed to run", err)
	}
	if l.TypeOf(-1) != lua.TypeTable {
		return 0, apperrors.New(apperrors.CodeAuditScriptInvalid,
			"script must return a rules table")
	}
	rulesIndex := l.Top()
	for _, name := range []string{"setup", "turn", "outcome"} {
		l.Field(rulesIndex, name)
		kind := l.TypeOf(-1)
		l.Pop(1)
		if kind != lua.TypeFunction {
			return 0, apperrors.WithMetadata(apperrors.CodeAuditScriptInvalid,
				"rules table is missing a function", map[string]string{"function": name})
		}
	}
	return rulesIndex, nil
}

// registerRandom installs random(n), returning an integer in [1, n].
func registerRandom(l *lua.State, rng *rand.Rand) {
	l.PushGoFunction(func(l *lua.State) int {
		n := lua.CheckInteger(l, 1)
		if n < 1 {
			lua.Errorf(l, "random(n) requires n >= 1")
			return 0
		}
		l.PushInteger(rng.Intn(n) + 1)
		return 1
	})
	l.SetGlobal("random")
}

func scriptError(message string, cause error) error {
	return apperrors.Wrap(apperrors.CodeAuditScriptInvalid, message, cause)
}
