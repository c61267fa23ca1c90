// Package filetree derives the folder/file view of a project from the flat
// paths of its files. Folders are virtual: they exist only as path prefixes.
package filetree

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aide-studio/engine/internal/models"
)

type NodeType string

const (
	TypeFolder NodeType = "folder"
	TypeFile   NodeType = "file"
)

// Node is one entry of the tree. Folder ids are their accumulated path;
// file ids are the id of the backing File record.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Path     string   `json:"path"`
	Language *string  `json:"language,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Tree is the builder output. Placeholder is set when Nodes is the fixed
// starter layout rather than real project data.
type Tree struct {
	Placeholder bool    `json:"placeholder"`
	Nodes       []*Node `json:"nodes"`
}

// Build turns files into a sorted tree. Files are processed in the order
// given; when two paths disagree about whether a name is a folder or a file,
// the first one seen wins and the conflicting remainder is dropped.
func Build(files []models.File) Tree {
	if len(files) == 0 {
		return Placeholder()
	}

	b := builder{roots: []*Node{}, byPath: map[string]*Node{}}
	for _, f := range files {
		b.add(f)
	}
	sortLevel(b.roots, collate.New(language.English))
	return Tree{Nodes: b.roots}
}

type builder struct {
	roots  []*Node
	byPath map[string]*Node
}

func (b *builder) add(f models.File) {
	segments := split(f.Path)
	if len(segments) == 0 {
		return
	}
	dirOnly := strings.HasSuffix(f.Path, "/")

	level := &b.roots
	acc := ""
	for i, name := range segments {
		if acc == "" {
			acc = name
		} else {
			acc = acc + "/" + name
		}
		last := i == len(segments)-1
		isFile := last && !dirOnly

		node, ok := b.byPath[acc]
		if !ok {
			node = &Node{ID: acc, Name: name, Type: TypeFolder, Path: acc}
			if isFile {
				node.ID = f.ID
				node.Type = TypeFile
				node.Language = f.Language
			}
			*level = append(*level, node)
			b.byPath[acc] = node
		}
		if node.Type == TypeFile {
			return
		}
		level = &node.Children
	}
}

func split(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sortLevel orders folders before files, then by locale-aware name.
func sortLevel(nodes []*Node, c *collate.Collator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Type != b.Type {
			return a.Type == TypeFolder
		}
		if r := c.CompareString(a.Name, b.Name); r != 0 {
			return r < 0
		}
		return a.Name < b.Name
	})
	for _, n := range nodes {
		if len(n.Children) > 0 {
			sortLevel(n.Children, c)
		}
	}
}

// Placeholder is the starter layout shown for a project with no files.
func Placeholder() Tree {
	ts, js := "typescript", "json"
	return Tree{
		Placeholder: true,
		Nodes: []*Node{
			{
				ID: "src", Name: "src", Type: TypeFolder, Path: "src",
				Children: []*Node{
					{ID: "app-tsx", Name: "App.tsx", Type: TypeFile, Path: "src/App.tsx", Language: &ts},
					{ID: "main-ts", Name: "main.ts", Type: TypeFile, Path: "src/main.ts", Language: &ts},
				},
			},
			{ID: "package-json", Name: "package.json", Type: TypeFile, Path: "package.json", Language: &js},
		},
	}
}

// Walk visits every node depth-first in display order.
func Walk(nodes []*Node, fn func(n *Node, depth int)) {
	var visit func([]*Node, int)
	visit = func(ns []*Node, depth int) {
		for _, n := range ns {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(nodes, 0)
}
