package rules

import (
	"fmt"

	"github.com/mcoot/rpsgame-go/internal/model"
)

// pairs maps a two-symbol key to its verdict. A "win" key means the first
// symbol beats the second; the reverse ordering is looked up on a miss.
var pairs = map[string]model.Verdict{
	"RS": model.VerdictWin,
	"SP": model.VerdictWin,
	"PR": model.VerdictWin,
	"RR": model.VerdictTie,
	"SS": model.VerdictTie,
	"PP": model.VerdictTie,
}

// Resolve compares two choices and reports which side, if any, won
func Resolve(a, b model.Choice) (model.Outcome, error) {
	if !a.IsValid() || !b.IsValid() {
		return model.Outcome{}, fmt.Errorf("resolving %q vs %q: %w", a, b, model.ErrInvalidChoice)
	}

	if v, ok := pairs[string(a)+string(b)]; ok {
		if v == model.VerdictTie {
			return model.Outcome{Verdict: model.VerdictTie, Winner: model.SideNone}, nil
		}
		return model.Outcome{Verdict: model.VerdictWin, Winner: model.SideFirst}, nil
	}

	if v, ok := pairs[string(b)+string(a)]; ok && v == model.VerdictWin {
		return model.Outcome{Verdict: model.VerdictWin, Winner: model.SideSecond}, nil
	}

	// Unreachable while the table covers all nine pairs
	return model.Outcome{}, fmt.Errorf("no rule for %q vs %q: %w", a, b, model.ErrInvalidChoice)
}

// Beats reports whether a defeats b
func Beats(a, b model.Choice) bool {
	out, err := Resolve(a, b)
	return err == nil && out.Winner == model.SideFirst
}
