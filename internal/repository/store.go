package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/aide-studio/engine/internal/models"
)

// Store is the process-lifetime Entity Store. All state is volatile: a
// restart starts from an empty store (or from the injected seed).
type Store struct {
	Projects  ProjectRepository
	Files     FileRepository
	Chat      ChatMessageRepository
	Connector ConnectorRepository
}

// Seed is initial state injected at construction.
type Seed struct {
	Projects     []models.Project
	Files        []models.File
	ChatMessages []models.ChatMessage
}

type options struct {
	now    func() time.Time
	newID  func() string
	envKey func() string
	seed   Seed
}

// Option configures a Store.
type Option func(*options)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(newID func() string) Option { return func(o *options) { o.newID = newID } }

// WithEnvAPIKey sets how the connector resolves the environment-supplied key.
// It is called every time the effective key is needed.
func WithEnvAPIKey(resolve func() string) Option { return func(o *options) { o.envKey = resolve } }

// WithSeed preloads records. Seeded records keep their ids and timestamps.
func WithSeed(seed Seed) Option { return func(o *options) { o.seed = seed } }

// NewStore builds an empty in-memory store.
func NewStore(opts ...Option) *Store {
	o := options{
		now:    time.Now,
		newID:  uuid.NewString,
		envKey: func() string { return "" },
	}
	for _, fn := range opts {
		fn(&o)
	}

	projects := newProjectRepository(o.now, o.newID)
	files := newFileRepository(o.now, o.newID)
	chat := newChatMessageRepository(o.now, o.newID)
	for _, p := range o.seed.Projects {
		projects.rows.insert(p.ID, p)
	}
	for _, f := range o.seed.Files {
		files.rows.insert(f.ID, f)
	}
	for _, m := range o.seed.ChatMessages {
		chat.rows.insert(m.ID, m)
	}

	return &Store{
		Projects:  projects,
		Files:     files,
		Chat:      chat,
		Connector: newConnectorRepository(o.now, o.newID, o.envKey),
	}
}

// touch returns the new updatedAt, never earlier than createdAt.
func touch(now func() time.Time, createdAt time.Time) time.Time {
	t := now()
	if t.Before(createdAt) {
		return createdAt
	}
	return t
}
