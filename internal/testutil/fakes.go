package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/westward-dev/westward/internal/application/port/output"
	"github.com/westward-dev/westward/internal/domain/model"
	"github.com/westward-dev/westward/internal/domain/model/lock"
	"github.com/westward-dev/westward/internal/domain/repository"
)

// FakeRunner implements output.CommandRunner and records every invocation.
// By default every command succeeds with empty output; RunFunc and
// LookPathFunc override the behavior per test.
type FakeRunner struct {
	mu    sync.Mutex
	Calls []output.Command

	RunFunc      func(ctx context.Context, cmd output.Command) (*output.Result, error)
	LookPathFunc func(bin string) (string, error)
}

// Run records the command and delegates to RunFunc when set
func (f *FakeRunner) Run(ctx context.Context, cmd output.Command) (*output.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	f.mu.Unlock()

	if f.RunFunc != nil {
		return f.RunFunc(ctx, cmd)
	}
	return &output.Result{ExitCode: 0}, nil
}

// LookPath delegates to LookPathFunc when set; otherwise every binary resolves
func (f *FakeRunner) LookPath(bin string) (string, error) {
	if f.LookPathFunc != nil {
		return f.LookPathFunc(bin)
	}
	return "/usr/bin/" + bin, nil
}

// CallCount returns how many commands were run
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// CommandLines renders the recorded invocations as space-joined lines
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, strings.TrimSpace(c.Bin+" "+strings.Join(c.Args, " ")))
	}
	return lines
}

// scriptedAnswer is one queued reply of a ScriptedPrompt
type scriptedAnswer struct {
	kind   string // "select", "multi", "text", "folder"
	value  string
	values []string
	cancel bool
}

// ScriptedPrompt implements output.UserPrompt with a fixed queue of answers.
// Each prompt consumes the next answer in order; a kind mismatch or an
// exhausted queue fails the test through the returned error.
type ScriptedPrompt struct {
	mu      sync.Mutex
	answers []scriptedAnswer
	Asked   []string // Prompt titles in the order they were shown
}

// NewScriptedPrompt creates an empty prompt script
func NewScriptedPrompt() *ScriptedPrompt {
	return &ScriptedPrompt{}
}

// WillSelect queues a single-choice answer
func (p *ScriptedPrompt) WillSelect(value string) *ScriptedPrompt {
	p.answers = append(p.answers, scriptedAnswer{kind: "select", value: value})
	return p
}

// WillSelectMany queues a multi-choice answer
func (p *ScriptedPrompt) WillSelectMany(values ...string) *ScriptedPrompt {
	p.answers = append(p.answers, scriptedAnswer{kind: "multi", values: values})
	return p
}

// WillType queues a text answer
func (p *ScriptedPrompt) WillType(value string) *ScriptedPrompt {
	p.answers = append(p.answers, scriptedAnswer{kind: "text", value: value})
	return p
}

// WillPick queues a folder answer
func (p *ScriptedPrompt) WillPick(folder string) *ScriptedPrompt {
	p.answers = append(p.answers, scriptedAnswer{kind: "folder", value: folder})
	return p
}

// WillCancel queues a dismissal; the prompt that consumes it reports the
// domain cancellation error
func (p *ScriptedPrompt) WillCancel() *ScriptedPrompt {
	p.answers = append(p.answers, scriptedAnswer{cancel: true})
	return p
}

func (p *ScriptedPrompt) next(title, kind string) (scriptedAnswer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Asked = append(p.Asked, title)
	if len(p.answers) == 0 {
		return scriptedAnswer{}, fmt.Errorf("no scripted answer left for prompt %q", title)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if !a.cancel && a.kind != kind {
		return scriptedAnswer{}, fmt.Errorf("prompt %q wants a %s answer, script has %s", title, kind, a.kind)
	}
	return a, nil
}

// SelectOne pops the next answer and checks it is one of the offered options
func (p *ScriptedPrompt) SelectOne(ctx context.Context, sp output.SelectPrompt) (string, error) {
	a, err := p.next(sp.Title, "select")
	if err != nil {
		return "", err
	}
	if a.cancel {
		return "", model.ErrCancelled
	}
	for _, opt := range sp.Options {
		if opt.Value == a.value {
			return a.value, nil
		}
	}
	return "", fmt.Errorf("scripted answer %q is not among the options of prompt %q", a.value, sp.Title)
}

// SelectMany pops the next answer; an empty subset counts as cancellation
func (p *ScriptedPrompt) SelectMany(ctx context.Context, sp output.SelectPrompt) ([]string, error) {
	a, err := p.next(sp.Title, "multi")
	if err != nil {
		return nil, err
	}
	if a.cancel || len(a.values) == 0 {
		return nil, model.ErrCancelled
	}
	offered := make(map[string]bool, len(sp.Options))
	for _, opt := range sp.Options {
		offered[opt.Value] = true
	}
	for _, v := range a.values {
		if !offered[v] {
			return nil, fmt.Errorf("scripted answer %q is not among the options of prompt %q", v, sp.Title)
		}
	}
	return a.values, nil
}

// Text pops answers until one passes the prompt's validator, mirroring the
// interactive re-ask loop
func (p *ScriptedPrompt) Text(ctx context.Context, tp output.TextPrompt) (string, error) {
	for {
		a, err := p.next(tp.Title, "text")
		if err != nil {
			return "", err
		}
		if a.cancel {
			return "", model.ErrCancelled
		}
		if tp.Validate == nil || tp.Validate(a.value) == nil {
			return a.value, nil
		}
	}
}

// SelectFolder pops the next answer
func (p *ScriptedPrompt) SelectFolder(ctx context.Context, fp output.FolderPrompt) (string, error) {
	a, err := p.next(fp.Title, "folder")
	if err != nil {
		return "", err
	}
	if a.cancel {
		return "", model.ErrCancelled
	}
	return a.value, nil
}

// MemJournal implements repository.JournalRepository in memory
type MemJournal struct {
	mu      sync.Mutex
	Records []*repository.JournalRecord
	nextID  int
}

// Append stores a copy of the record with a generated ID
func (j *MemJournal) Append(ctx context.Context, record *repository.JournalRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.nextID++
	cp := *record
	cp.ID = fmt.Sprintf("rec-%04d", j.nextID)
	cp.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	j.Records = append(j.Records, &cp)
	return nil
}

// Recent returns the latest records, newest first
func (j *MemJournal) Recent(ctx context.Context, limit int) ([]*repository.JournalRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*repository.JournalRecord, 0, limit)
	for i := len(j.Records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.Records[i])
	}
	return out, nil
}

// FindByRun returns the records of one invocation, oldest first
func (j *MemJournal) FindByRun(ctx context.Context, runID string) ([]*repository.JournalRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []*repository.JournalRecord
	for _, r := range j.Records {
		if r.RunID == runID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Operations returns the recorded operation names in append order
func (j *MemJournal) Operations() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	ops := make([]string, 0, len(j.Records))
	for _, r := range j.Records {
		ops = append(ops, r.Operation)
	}
	return ops
}

// MemLocks implements repository.CommandLockRepository in memory.
// Setting Busy simulates a live lock held by another process on another
// host, so every acquisition is refused.
type MemLocks struct {
	mu       sync.Mutex
	Busy     bool
	held     map[string]*lock.CommandLock
	Acquired int
	Released int
}

// NewMemLocks creates an empty in-memory lock repository
func NewMemLocks() *MemLocks {
	return &MemLocks{held: make(map[string]*lock.CommandLock)}
}

func (m *MemLocks) foreignHolder(lockID string) *lock.CommandLock {
	now := time.Now().UTC()
	return lock.ReconstructCommandLock(lockID, "setup", 4242, "elsewhere", now, now.Add(time.Hour))
}

// Acquire grants the lock unless Busy is set or it is already held
func (m *MemLocks) Acquire(ctx context.Context, lockID, operation string, ttl time.Duration) (*lock.CommandLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Busy {
		return nil, nil
	}
	if _, exists := m.held[lockID]; exists {
		return nil, nil
	}
	l, err := lock.NewCommandLock(lockID, operation, ttl)
	if err != nil {
		return nil, err
	}
	m.held[lockID] = l
	m.Acquired++
	return l, nil
}

// Release drops the lock when held
func (m *MemLocks) Release(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.held[lockID]; exists {
		delete(m.held, lockID)
		m.Released++
	}
	return nil
}

// Find returns the current holder or lock.ErrLockNotFound
func (m *MemLocks) Find(ctx context.Context, lockID string) (*lock.CommandLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Busy {
		return m.foreignHolder(lockID), nil
	}
	if l, exists := m.held[lockID]; exists {
		return l, nil
	}
	return nil, lock.ErrLockNotFound
}

// CleanupExpired removes expired locks
func (m *MemLocks) CleanupExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, l := range m.held {
		if l.IsExpired() {
			delete(m.held, id)
			removed++
		}
	}
	return removed, nil
}
