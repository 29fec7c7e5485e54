package domain

// RunRepository defines the interface for run-history persistence
type RunRepository interface {
	// Create creates a new run record
	Create(run *Run) error

	// Update updates an existing run record
	Update(run *Run) error

	// Delete deletes a run by ID
	Delete(id string) error

	// FindByID finds a run by ID
	FindByID(id string) (*Run, error)

	// FindAll finds all runs with optional filters
	FindAll(filters map[string]interface{}) ([]*Run, error)

	// FindRecent finds the most recent runs, newest first
	FindRecent(limit int) ([]*Run, error)

	// Count returns the total number of runs
	Count() (int64, error)

	// GetStats returns aggregate statistics over the run history
	GetStats() (*RunStats, error)
}
