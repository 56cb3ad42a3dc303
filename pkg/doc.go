// Package pkg provides the core libraries for rangedeck comparison layouts.
//
// # Overview
//
// rangedeck puts the scenarios of a poker notebook side by side. A user
// rearranges them in a grid by drag and drop, or, when every scenario is a
// solver analysis, places them freely as cards on a canvas. The arrangement
// of every comparison is remembered. The pkg directory is organized into
// three areas:
//
//  1. Engines - pure layout logic ([grid], [layout], [reorder], [canvas])
//  2. Infrastructure - persistence and hooks ([store], [observability], [errors])
//  3. Orchestration - [compare] binds a stored state to live gestures, and
//     [catalog] says which scenarios a comparison holds
//
// # Architecture
//
// The typical data flow for one drag:
//
//	pointer events
//	     ↓
//	[reorder.Gesture] (what is the pointer over, which side)
//	     ↓
//	[reorder] slot operations (move to empty, insert beside)
//	     ↓
//	[layout.State] (new order, history, column override)
//	     ↓
//	[store.Store] → file | sqlite | redis | mongo | memory
//
// # Quick Start
//
// Open a comparison, drag the third scenario to the front and undo it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/rangedeck/pkg/compare"
//	    "github.com/matzehuels/rangedeck/pkg/grid"
//	    "github.com/matzehuels/rangedeck/pkg/layout"
//	    "github.com/matzehuels/rangedeck/pkg/store"
//	)
//
//	s := store.New(store.NewMemoryBackend())
//	items := []layout.Item{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}
//
//	c, _ := compare.Open(ctx, s, "btn-vs-bb", items, compare.Options{
//	    Columns: grid.Viewport{Width: 1440},
//	})
//	c.DragStart("s3")
//	c.DragOverSide(0, grid.SideLeft)
//	st, _ := c.Drop(ctx, 0) // st.Order = [s3 s1 s2]
//	c.Undo(ctx)             // back to [s1 s2 s3]
//
// # Package Overview
//
// Engines:
//   - [grid]: slot lists, display padding, column sources, drop sides
//   - [layout]: the per-comparison state, its signature and undo history
//   - [reorder]: grid rearrangement, presets and the drag state machine
//   - [canvas]: free-canvas cards and move/resize/raise gestures
//
// Infrastructure:
//   - [store]: keyed persistence with per-key locking over pluggable backends
//   - [observability]: hooks for layout, store and HTTP events
//   - [errors]: coded errors shared by every layer
//
// Orchestration:
//   - [compare]: the controller a UI talks to
//   - [catalog]: notebooks and scenarios loaded from TOML
//
// # Empty slots
//
// An arrangement is a list of slots. An empty slot is the empty string and
// encodes as JSON null. Stored orders never end in empty slots; the grid
// adds two spare rows of padding for display only.
//
// [grid]: github.com/matzehuels/rangedeck/pkg/grid
// [layout]: github.com/matzehuels/rangedeck/pkg/layout
// [reorder]: github.com/matzehuels/rangedeck/pkg/reorder
// [canvas]: github.com/matzehuels/rangedeck/pkg/canvas
// [store]: github.com/matzehuels/rangedeck/pkg/store
// [observability]: github.com/matzehuels/rangedeck/pkg/observability
// [errors]: github.com/matzehuels/rangedeck/pkg/errors
// [compare]: github.com/matzehuels/rangedeck/pkg/compare
// [catalog]: github.com/matzehuels/rangedeck/pkg/catalog
// [reorder.Gesture]: github.com/matzehuels/rangedeck/pkg/reorder#Gesture
// [layout.State]: github.com/matzehuels/rangedeck/pkg/layout#State
// [store.Store]: github.com/matzehuels/rangedeck/pkg/store#Store
package pkg
