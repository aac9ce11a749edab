package predict

import "fmt"

// Input bounds accepted by ValidateRanges. Values outside these are
// almost certainly data-entry mistakes rather than unusual movies.
const (
	MaxPopularity = 1000
	MinRuntime    = 1
	MaxRuntime    = 500
	MinYear       = 1900
	MaxYear       = 2030
	MinGenres     = 1
	MaxGenres     = 10
	MinCast       = 1
	MaxCast       = 50
)

// ValidateRanges checks every input against its plausible range and
// returns one message per violation. An empty slice means all inputs
// are acceptable. It never fails and never stops at the first problem,
// so a form can surface every issue at once.
func ValidateRanges(budget, popularity, runtime float64, year, numGenres, numCast int) []string {
	var errs []string

	if budget < 0 {
		errs = append(errs, "budget cannot be negative")
	}
	if popularity < 0 || popularity > MaxPopularity {
		errs = append(errs, fmt.Sprintf("popularity must be between 0 and %d", MaxPopularity))
	}
	if runtime < MinRuntime || runtime > MaxRuntime {
		errs = append(errs, fmt.Sprintf("runtime must be between %d and %d minutes", MinRuntime, MaxRuntime))
	}
	if year < MinYear || year > MaxYear {
		errs = append(errs, fmt.Sprintf("year must be between %d and %d", MinYear, MaxYear))
	}
	if numGenres < MinGenres || numGenres > MaxGenres {
		errs = append(errs, fmt.Sprintf("number of genres must be between %d and %d", MinGenres, MaxGenres))
	}
	if numCast < MinCast || numCast > MaxCast {
		errs = append(errs, fmt.Sprintf("number of cast members must be between %d and %d", MinCast, MaxCast))
	}

	return errs
}
