package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aide-studio/engine/internal/models"
)

func strPtr(s string) *string { return &s }

func TestMirrorDefaults(t *testing.T) {
	m := NewMirror()
	s := m.Snapshot()
	assert.Equal(t, models.ModePlanner, s.CurrentMode)
	assert.Nil(t, s.CurrentProject)
	assert.Nil(t, s.Connector)
	assert.False(t, s.Loading)
	assert.False(t, s.SidebarCollapsed)
}

func TestMirrorUpdateKeepsSelectionConsistent(t *testing.T) {
	m := NewMirror()
	p := models.Project{ID: "p1", Name: "old"}
	m.SetProjects([]models.Project{p, {ID: "p2", Name: "other"}})
	m.SetCurrentProject(&p)

	m.UpdateProject(models.Project{ID: "p1", Name: "new"})
	s := m.Snapshot()
	assert.Equal(t, "new", s.Projects[0].Name)
	require.NotNil(t, s.CurrentProject)
	assert.Equal(t, "new", s.CurrentProject.Name)

	m.DeleteProject("p2")
	assert.NotNil(t, m.Snapshot().CurrentProject)

	m.DeleteProject("p1")
	s = m.Snapshot()
	assert.Nil(t, s.CurrentProject)
	assert.Empty(t, s.Projects)
}

func TestMirrorFileSelection(t *testing.T) {
	m := NewMirror()
	f := models.File{ID: "f1", ProjectID: strPtr("p1"), Path: "a.ts"}
	m.AddFile(f)
	m.SetCurrentFile(&f)

	m.UpdateFile(models.File{ID: "f1", ProjectID: strPtr("p1"), Path: "b.ts"})
	assert.Equal(t, "b.ts", m.Snapshot().CurrentFile.Path)

	m.DeleteFile("f1")
	assert.Nil(t, m.Snapshot().CurrentFile)
	assert.Empty(t, m.Snapshot().Files)
}

func TestMirrorObservers(t *testing.T) {
	m := NewMirror()
	var seen []bool
	unsubscribe := m.Subscribe(func(s State) { seen = append(seen, s.SidebarCollapsed) })

	m.ToggleSidebar()
	m.ToggleSidebar()
	unsubscribe()
	m.ToggleSidebar()

	assert.Equal(t, []bool{true, false}, seen)
}

func TestMirrorSnapshotIsACopy(t *testing.T) {
	m := NewMirror()
	m.AddProject(models.Project{ID: "p1", Config: map[string]any{"k": "v"}})

	s := m.Snapshot()
	s.Projects[0].Config["k"] = "changed"
	s.Projects[0].Name = "changed"

	again := m.Snapshot()
	assert.Equal(t, "v", again.Projects[0].Config["k"])
	assert.Empty(t, again.Projects[0].Name)
}

func TestMirrorFileTreeScopesToCurrentProject(t *testing.T) {
	m := NewMirror()
	assert.True(t, m.FileTree().Placeholder)

	m.SetFiles([]models.File{
		{ID: "f1", ProjectID: strPtr("p1"), Path: "src/main.ts"},
		{ID: "f2", ProjectID: strPtr("p2"), Path: "README.md"},
	})
	assert.Len(t, m.FileTree().Nodes, 2)

	m.SetCurrentProject(&models.Project{ID: "p1"})
	tree := m.FileTree()
	require.Len(t, tree.Nodes, 1)
	assert.Equal(t, "src", tree.Nodes[0].Name)

	m.SetCurrentProject(&models.Project{ID: "p3"})
	assert.True(t, m.FileTree().Placeholder)
}

func TestMirrorChatAndConnector(t *testing.T) {
	m := NewMirror()
	m.SetChatMessages([]models.ChatMessage{{ID: "m1"}})
	m.AddChatMessage(models.ChatMessage{ID: "m2"})
	m.addChatMessageOnce(models.ChatMessage{ID: "m2"})
	assert.Len(t, m.Snapshot().ChatMessages, 2)

	m.SetConnector(&models.ConnectorConfig{ID: "c", IsConnected: true})
	assert.True(t, m.Snapshot().Connector.IsConnected)
	m.SetConnector(nil)
	assert.Nil(t, m.Snapshot().Connector)

	m.SetLoading(true)
	assert.True(t, m.Snapshot().Loading)
	m.SetCurrentMode(models.ModeDebug)
	assert.Equal(t, models.ModeDebug, m.Snapshot().CurrentMode)
}
