package llm

import "errors"

// ErrProvider wraps every failure to obtain a completion.
var ErrProvider = errors.New("llm provider error")
