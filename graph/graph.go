// Package graph implements the line graph from spec §4.F: an
// undirected multigraph of stops connected by rt_line_graph edges,
// used to enumerate simple paths between an origin and destination and
// the stops that lie between them.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/right-track/core/coreerr"
	"github.com/right-track/core/model"
)

// MaxPaths bounds simple-path enumeration in Paths. Spec §4.F leaves
// the ceiling implementation-defined; 512 is generous enough for any
// real transit network's line graph while keeping worst-case DFS
// bounded on pathological fully-connected inputs.
const MaxPaths = 512

// Vertex pairs a stop id with its transfer weight, the unit Paths and
// NextStops return sequences of.
type Vertex struct {
	StopID         string
	TransferWeight int
}

// Path is a simple (no repeated vertex) sequence from origin to
// destination, inclusive of both ends.
type Path []Vertex

// Graph is built lazily by its owner (package query) on first use and
// held until the owner's cache is cleared.
type Graph struct {
	stops map[string]model.Stop
	adj   map[string]map[string]bool
	log   *slog.Logger
}

// New builds a Graph from every known stop and the rt_line_graph edge
// pairs. Edges naming an unknown stop id are skipped rather than
// rejected, matching the teacher's tolerance of loosely-curated
// operator extension tables.
func New(stops []model.Stop, edges [][2]string, log *slog.Logger) *Graph {
	if log == nil {
		log = slog.Default()
	}
	g := &Graph{
		stops: make(map[string]model.Stop, len(stops)),
		adj:   make(map[string]map[string]bool),
		log:   log.With("component", "graph"),
	}
	for _, s := range stops {
		g.stops[s.ID] = s
	}
	for _, e := range edges {
		a, b := e[0], e[1]
		if _, ok := g.stops[a]; !ok {
			continue
		}
		if _, ok := g.stops[b]; !ok {
			continue
		}
		g.link(a, b)
	}
	return g
}

func (g *Graph) link(a, b string) {
	if g.adj[a] == nil {
		g.adj[a] = map[string]bool{}
	}
	if g.adj[b] == nil {
		g.adj[b] = map[string]bool{}
	}
	g.adj[a][b] = true
	g.adj[b][a] = true
}

func (g *Graph) vertex(stopID string) Vertex {
	return Vertex{StopID: stopID, TransferWeight: g.stops[stopID].TransferWeight}
}

// Paths enumerates every simple path between origin and destination,
// capping at MaxPaths. When the cap is hit, the remaining paths are
// dropped and a Warn is logged — callers needing exhaustive
// enumeration on a known-small graph can ignore the cap entirely by
// construction (real transit line graphs never approach it).
func (g *Graph) Paths(ctx context.Context, origin, destination string) ([]Path, error) {
	if _, ok := g.stops[origin]; !ok {
		return nil, coreerr.NotFound(fmt.Sprintf("stop %q not in line graph", origin))
	}
	if _, ok := g.stops[destination]; !ok {
		return nil, coreerr.NotFound(fmt.Sprintf("stop %q not in line graph", destination))
	}

	var paths []Path
	visited := map[string]bool{origin: true}
	current := Path{g.vertex(origin)}
	capped := false

	var dfs func(stopID string) error
	dfs = func(stopID string) error {
		if len(paths) >= MaxPaths {
			capped = true
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if stopID == destination {
			cp := make(Path, len(current))
			copy(cp, current)
			paths = append(paths, cp)
			return nil
		}
		neighbors := make([]string, 0, len(g.adj[stopID]))
		for n := range g.adj[stopID] {
			neighbors = append(neighbors, n)
		}
		sort.Strings(neighbors)
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			visited[n] = true
			current = append(current, g.vertex(n))
			if err := dfs(n); err != nil {
				return err
			}
			current = current[:len(current)-1]
			delete(visited, n)
			if len(paths) >= MaxPaths {
				break
			}
		}
		return nil
	}

	if err := dfs(origin); err != nil {
		return nil, err
	}
	if capped {
		g.log.Warn("path enumeration hit cap", "origin", origin, "destination", destination, "cap", MaxPaths)
	}
	return paths, nil
}

// NextStops returns the distinct stop ids that appear strictly after
// stopID on any path from origin to destination, sorted by transfer
// weight descending.
func (g *Graph) NextStops(ctx context.Context, origin, destination, stopID string) ([]string, error) {
	paths, err := g.Paths(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	seen := map[string]int{}
	for _, p := range paths {
		for i, v := range p {
			if v.StopID != stopID {
				continue
			}
			for _, after := range p[i+1:] {
				seen[after.StopID] = after.TransferWeight
			}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if seen[out[i]] != seen[out[j]] {
			return seen[out[i]] > seen[out[j]]
		}
		return out[i] < out[j]
	})
	return out, nil
}
