package client

import (
	"slices"
	"sync"

	"github.com/aide-studio/engine/internal/filetree"
	"github.com/aide-studio/engine/internal/models"
)

// State is a snapshot of the mirror. Slices and records are copies; callers
// may keep or modify them freely.
type State struct {
	CurrentMode    models.Mode
	CurrentProject *models.Project
	CurrentFile    *models.File

	Projects     []models.Project
	Files        []models.File
	ChatMessages []models.ChatMessage
	Connector    *models.ConnectorConfig

	Loading          bool
	SidebarCollapsed bool
}

// Mirror is the client-side copy of server entities plus UI-only state.
// Every action is synchronous and local; nothing here talks to the network.
// Observers run after each action, outside the lock, with a fresh snapshot.
type Mirror struct {
	mu    sync.RWMutex
	state State
	// gone holds ids of deleted projects and files. Ids are never reused, so
	// a feed event naming one arrived after its deletion and is ignored.
	gone map[string]struct{}

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(State)
}

func NewMirror() *Mirror {
	return &Mirror{
		state: State{CurrentMode: models.ModePlanner},
		gone:  map[string]struct{}{},
		subs:  map[int]func(State){},
	}
}

// Subscribe registers fn to run after every change and returns a function
// that removes it.
func (m *Mirror) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Mirror) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// FileTree derives the tree view from the mirrored files of the current
// project, or of all mirrored files when no project is selected.
func (m *Mirror) FileTree() filetree.Tree {
	m.mu.RLock()
	files := m.state.Files
	if p := m.state.CurrentProject; p != nil {
		files = slices.DeleteFunc(slices.Clone(files), func(f models.File) bool { return !f.BelongsTo(p.ID) })
	} else {
		files = slices.Clone(files)
	}
	m.mu.RUnlock()
	return filetree.Build(files)
}

func (m *Mirror) mutate(fn func(s *State)) {
	m.mutateIf(func(s *State) bool {
		fn(s)
		return true
	})
}

// mutateIf applies fn and notifies observers only when fn reports a change.
func (m *Mirror) mutateIf(fn func(s *State) bool) {
	m.mu.Lock()
	if !fn(&m.state) {
		m.mu.Unlock()
		return
	}
	snap := m.state.clone()
	m.mu.Unlock()

	m.subMu.Lock()
	subs := make([]func(State), 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
	}
	m.subMu.Unlock()
	for _, sub := range subs {
		sub(snap)
	}
}

func (m *Mirror) SetCurrentMode(mode models.Mode) {
	m.mutate(func(s *State) { s.CurrentMode = mode })
}

func (m *Mirror) SetCurrentProject(p *models.Project) {
	m.mutate(func(s *State) { s.CurrentProject = cloneProject(p) })
}

func (m *Mirror) SetCurrentFile(f *models.File) {
	m.mutate(func(s *State) { s.CurrentFile = cloneFile(f) })
}

func (m *Mirror) SetProjects(items []models.Project) {
	m.mutate(func(s *State) { s.Projects = cloneAll(items, models.Project.Clone) })
}

func (m *Mirror) AddProject(p models.Project) {
	m.mutate(func(s *State) { s.Projects = append(s.Projects, p.Clone()) })
}

// UpdateProject replaces the mirrored record with the same id and refreshes
// the selection if it points at it.
func (m *Mirror) UpdateProject(p models.Project) {
	m.mutate(func(s *State) {
		for i := range s.Projects {
			if s.Projects[i].ID == p.ID {
				s.Projects[i] = p.Clone()
			}
		}
		if s.CurrentProject != nil && s.CurrentProject.ID == p.ID {
			s.CurrentProject = cloneProject(&p)
		}
	})
}

// DeleteProject drops the record and clears the selection if it pointed at it.
func (m *Mirror) DeleteProject(id string) {
	m.mutate(func(s *State) {
		m.gone[id] = struct{}{}
		s.Projects = slices.DeleteFunc(s.Projects, func(p models.Project) bool { return p.ID == id })
		if s.CurrentProject != nil && s.CurrentProject.ID == id {
			s.CurrentProject = nil
		}
	})
}

func (m *Mirror) SetFiles(items []models.File) {
	m.mutate(func(s *State) { s.Files = cloneAll(items, models.File.Clone) })
}

func (m *Mirror) AddFile(f models.File) {
	m.mutate(func(s *State) { s.Files = append(s.Files, f.Clone()) })
}

func (m *Mirror) UpdateFile(f models.File) {
	m.mutate(func(s *State) {
		for i := range s.Files {
			if s.Files[i].ID == f.ID {
				s.Files[i] = f.Clone()
			}
		}
		if s.CurrentFile != nil && s.CurrentFile.ID == f.ID {
			s.CurrentFile = cloneFile(&f)
		}
	})
}

func (m *Mirror) DeleteFile(id string) {
	m.mutate(func(s *State) {
		m.gone[id] = struct{}{}
		s.Files = slices.DeleteFunc(s.Files, func(f models.File) bool { return f.ID == id })
		if s.CurrentFile != nil && s.CurrentFile.ID == id {
			s.CurrentFile = nil
		}
	})
}

// upsertProject adds p or replaces the mirrored copy, for feeds that may
// repeat a change this client already applied. Records older than the
// mirrored copy and records of deleted projects are ignored.
func (m *Mirror) upsertProject(p models.Project) {
	m.mutateIf(func(s *State) bool {
		if _, ok := m.gone[p.ID]; ok {
			return false
		}
		if i := slices.IndexFunc(s.Projects, func(x models.Project) bool { return x.ID == p.ID }); i >= 0 {
			if p.UpdatedAt.Before(s.Projects[i].UpdatedAt) {
				return false
			}
			s.Projects[i] = p.Clone()
		} else {
			s.Projects = append(s.Projects, p.Clone())
		}
		if s.CurrentProject != nil && s.CurrentProject.ID == p.ID {
			s.CurrentProject = cloneProject(&p)
		}
		return true
	})
}

func (m *Mirror) upsertFile(f models.File) {
	m.mutateIf(func(s *State) bool {
		if _, ok := m.gone[f.ID]; ok {
			return false
		}
		if i := slices.IndexFunc(s.Files, func(x models.File) bool { return x.ID == f.ID }); i >= 0 {
			if f.UpdatedAt.Before(s.Files[i].UpdatedAt) {
				return false
			}
			s.Files[i] = f.Clone()
		} else {
			s.Files = append(s.Files, f.Clone())
		}
		if s.CurrentFile != nil && s.CurrentFile.ID == f.ID {
			s.CurrentFile = cloneFile(&f)
		}
		return true
	})
}

func (m *Mirror) addChatMessageOnce(msg models.ChatMessage) {
	m.mutate(func(s *State) {
		if !slices.ContainsFunc(s.ChatMessages, func(x models.ChatMessage) bool { return x.ID == msg.ID }) {
			s.ChatMessages = append(s.ChatMessages, msg.Clone())
		}
	})
}

func (m *Mirror) SetChatMessages(items []models.ChatMessage) {
	m.mutate(func(s *State) { s.ChatMessages = cloneAll(items, models.ChatMessage.Clone) })
}

func (m *Mirror) AddChatMessage(msg models.ChatMessage) {
	m.mutate(func(s *State) { s.ChatMessages = append(s.ChatMessages, msg.Clone()) })
}

func (m *Mirror) SetConnector(cfg *models.ConnectorConfig) {
	m.mutate(func(s *State) {
		if cfg == nil {
			s.Connector = nil
			return
		}
		c := cfg.Clone()
		s.Connector = &c
	})
}

func (m *Mirror) SetLoading(loading bool) {
	m.mutate(func(s *State) { s.Loading = loading })
}

func (m *Mirror) ToggleSidebar() {
	m.mutate(func(s *State) { s.SidebarCollapsed = !s.SidebarCollapsed })
}

func (s State) clone() State {
	out := s
	out.CurrentProject = cloneProject(s.CurrentProject)
	out.CurrentFile = cloneFile(s.CurrentFile)
	out.Projects = cloneAll(s.Projects, models.Project.Clone)
	out.Files = cloneAll(s.Files, models.File.Clone)
	out.ChatMessages = cloneAll(s.ChatMessages, models.ChatMessage.Clone)
	if s.Connector != nil {
		c := s.Connector.Clone()
		out.Connector = &c
	}
	return out
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = clone(it)
	}
	return out
}

func cloneProject(p *models.Project) *models.Project {
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}

func cloneFile(f *models.File) *models.File {
	if f == nil {
		return nil
	}
	c := f.Clone()
	return &c
}
