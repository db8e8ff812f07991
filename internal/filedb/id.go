package filedb

import "github.com/google/uuid"

// NewID returns a random identifier that is not currently taken.
// Candidates are drawn from a 2^122 space, so the loop terminates on the
// first draw for any realistic collection; there is deliberately no
// retry cap, a cap would only add a failure mode that cannot occur.
func NewID(taken func(string) bool) string {
	id := uuid.NewString()
	for taken(id) {
		id = uuid.NewString()
	}
	return id
}
