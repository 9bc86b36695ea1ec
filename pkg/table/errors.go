package table

import "github.com/pkg/errors"

// Error kinds shared by every pipeline step. Callers classify failures with
// errors.Is; the triggering error stays reachable through errors.As.
var (
	ErrNotFound        = errors.New("not found")
	ErrParse           = errors.New("parse error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIO              = errors.New("i/o error")
)
