package main

const (
	exitFailure = 1
	// exitPartial marks a result that was produced but is incomplete,
	// such as a comparison that dropped channels or an import with
	// skipped rows.
	exitPartial = 2
)

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error { return e.err }

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}

func partial(err error) error {
	return exitError{code: exitPartial, err: err}
}
