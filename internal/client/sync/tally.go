package sync

import "fmt"

// Tally is the per-path outcome summary of one sync operation. Commands
// always report it; there are no silent partial failures.
type Tally struct {
	Pulled    int
	Pushed    int
	Unchanged int
	Conflicts []string
	Skipped   []string // requested paths the remote store does not have
	Failures  map[string]error
}

func NewTally() *Tally {
	return &Tally{
		Failures: make(map[string]error),
	}
}

func (t *Tally) Fail(path string, err error) {
	t.Failures[path] = err
}

func (t *Tally) HasFailures() bool {
	return len(t.Failures) > 0
}

func (t *Tally) String() string {
	return fmt.Sprintf("pulled=%d pushed=%d unchanged=%d conflicts=%d skipped=%d failed=%d",
		t.Pulled, t.Pushed, t.Unchanged, len(t.Conflicts), len(t.Skipped), len(t.Failures))
}
