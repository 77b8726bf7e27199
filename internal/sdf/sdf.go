// Package sdf reads application dataflow descriptors (actor and channel
// elements) and derives the structural metrics reported per experiment.
package sdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Channel connects a source actor to a destination actor.
type Channel struct {
	Name string
	Src  string
	Dst  string
}

// Graph is the subset of a descriptor the workflow cares about.
type Graph struct {
	Path     string
	Actors   []string
	Channels []Channel
}

// Load parses the descriptor at path.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open application %s: %w", path, err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parse application %s: %w", path, err)
	}
	g.Path = path
	return g, nil
}

// Decode reads actor and channel elements at any depth of the document.
func Decode(r io.Reader) (*Graph, error) {
	g := &Graph{}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return g, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "actor":
			g.Actors = append(g.Actors, attr(start, "name"))
		case "channel":
			g.Channels = append(g.Channels, Channel{
				Name: attr(start, "name"),
				Src:  attr(start, "srcActor"),
				Dst:  attr(start, "dstActor"),
			})
		}
	}
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Metrics are aggregated over every application of an experiment.
type Metrics struct {
	Actors     int
	Channels   int
	Branches   int // source actors with more than one distinct destination
	Reductions int // destination actors with more than one distinct source
}

// Measure aggregates Metrics across graphs. Actor names are keyed globally,
// so identically named actors in different applications share fan-out sets.
func Measure(graphs ...*Graph) Metrics {
	var m Metrics
	fanOut := map[string]map[string]struct{}{}
	fanIn := map[string]map[string]struct{}{}

	for _, g := range graphs {
		m.Actors += len(g.Actors)
		m.Channels += len(g.Channels)
		for _, c := range g.Channels {
			addEdge(fanOut, c.Src, c.Dst)
			addEdge(fanIn, c.Dst, c.Src)
		}
	}

	m.Branches = countWide(fanOut)
	m.Reductions = countWide(fanIn)
	return m
}

// MeasureFiles loads every path and measures them together.
func MeasureFiles(paths []string) (Metrics, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	graphs := make([]*Graph, 0, len(sorted))
	for _, p := range sorted {
		g, err := Load(p)
		if err != nil {
			return Metrics{}, err
		}
		graphs = append(graphs, g)
	}
	return Measure(graphs...), nil
}

func addEdge(adj map[string]map[string]struct{}, from, to string) {
	set, ok := adj[from]
	if !ok {
		set = map[string]struct{}{}
		adj[from] = set
	}
	set[to] = struct{}{}
}

func countWide(adj map[string]map[string]struct{}) int {
	n := 0
	for _, set := range adj {
		if len(set) > 1 {
			n++
		}
	}
	return n
}
