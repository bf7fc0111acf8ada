package planner

// Recorder receives planner activity for metrics.
type Recorder interface {
	// Mutation counts a successful write operation ("create", "archive", ...).
	Mutation(op string)
	// Generated counts posts created by the Bulk Generator.
	Generated(n int)
	// PersistenceFailure counts failed writes of a store key.
	PersistenceFailure(key string)
	// Posts reports the current collection sizes.
	Posts(active, archived int)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string)           {}
func (nopRecorder) Generated(int)             {}
func (nopRecorder) PersistenceFailure(string) {}
func (nopRecorder) Posts(int, int)            {}
