package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aide-studio/engine/internal/events"
)

func TestMatchesProject(t *testing.T) {
	file := events.Event{Kind: events.KindFile, ID: "f1", ProjectID: "p1"}
	project := events.Event{Kind: events.KindProject, ID: "p1"}
	connector := events.Event{Kind: events.KindConnector, ID: "c"}

	assert.True(t, matchesProject(file, ""))
	assert.True(t, matchesProject(file, "p1"))
	assert.False(t, matchesProject(file, "p2"))
	assert.True(t, matchesProject(project, "p1"))
	assert.False(t, matchesProject(project, "p2"))
	assert.True(t, matchesProject(connector, "p2"))
}
