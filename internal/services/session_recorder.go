package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

const recordTimeout = 5 * time.Second

// SessionRecorder is a timer observer that appends every completed session to
// the journal, stamped with the git context of the working directory.
type SessionRecorder struct {
	journal    ports.SessionJournal
	git        ports.GitDetector
	workingDir string
	onError    func(error)
}

// NewSessionRecorder creates a recorder. git may be nil.
func NewSessionRecorder(journal ports.SessionJournal, git ports.GitDetector, workingDir string) *SessionRecorder {
	return &SessionRecorder{journal: journal, git: git, workingDir: workingDir}
}

// OnError sets a callback for journal write failures.
func (r *SessionRecorder) OnError(fn func(error)) {
	r.onError = fn
}

// OnTick implements ports.TimerObserver.
func (r *SessionRecorder) OnTick(domain.Display) {}

// OnSessionCompleted implements ports.TimerObserver.
func (r *SessionRecorder) OnSessionCompleted(ev domain.SessionCompleted) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.Record(ctx, ev); err != nil && r.onError != nil {
		r.onError(err)
	}
}

// Record stores one completion.
func (r *SessionRecorder) Record(ctx context.Context, ev domain.SessionCompleted) error {
	entry := domain.NewSessionEntry(ev)

	if r.git != nil {
		if info, err := r.git.Detect(ctx, r.workingDir); err == nil && info != nil {
			entry.GitBranch = info.Branch
			entry.GitCommit = info.Commit
			entry.GitRepo = info.Repository
		}
	}

	if err := r.journal.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}
