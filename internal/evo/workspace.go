package evo

import "fmt"

type workspaceState int

const (
	workspaceNotAllocated workspaceState = iota
	workspaceAllocated
	workspaceReleased
)

// Workspace holds the scratch buffers one generational session writes into:
// parents, children, the next-generation staging area, tournament competitors
// and the winner row. Buffers are sized once to capacity x length and reused
// by every step. A Workspace must not be shared by concurrent sessions.
type Workspace struct {
	length   int
	capacity int
	state    workspaceState

	parents     [][]int
	children    [][]int
	staging     [][]int
	competitors [][]int
	winner      []int

	competitorFitness []float64
	competitorIndexes []int

	// repair scratch, sized on the population's value range
	duplicates []int
	missing    []int
	marks      []int
	stamp      int
}

// NewWorkspace describes a buffer set for populations of the given individual
// length and capacity. Nothing is allocated until Ensure.
func NewWorkspace(length, capacity int) (*Workspace, error) {
	if length <= 0 || capacity <= 0 {
		return nil, fmt.Errorf("%w: workspace needs positive length and capacity, got %d x %d", ErrConfiguration, capacity, length)
	}
	return &Workspace{length: length, capacity: capacity}, nil
}

// NewWorkspaceFor sizes a workspace for pop.
func NewWorkspaceFor(pop *Population) (*Workspace, error) {
	if pop == nil {
		return nil, fmt.Errorf("%w: population is required", ErrInvalidArgument)
	}
	return NewWorkspace(pop.length, pop.capacity)
}

// Ensure allocates the buffers on first use. It fails once the workspace has
// been released.
func (w *Workspace) Ensure() error {
	switch w.state {
	case workspaceAllocated:
		return nil
	case workspaceReleased:
		return ErrWorkspaceReleased
	}
	_, w.parents = newRows(w.capacity, w.length)
	_, w.children = newRows(w.capacity, w.length)
	_, w.staging = newRows(w.capacity, w.length)
	_, w.competitors = newRows(w.capacity, w.length)
	w.winner = make([]int, w.length)
	w.competitorFitness = make([]float64, w.capacity)
	w.competitorIndexes = make([]int, w.capacity)
	w.duplicates = make([]int, 0, w.length)
	w.state = workspaceAllocated
	return nil
}

// Release drops every buffer. Further Ensure calls fail; repeated Release is
// a no-op.
func (w *Workspace) Release() {
	if w.state == workspaceReleased {
		return
	}
	w.parents = nil
	w.children = nil
	w.staging = nil
	w.competitors = nil
	w.winner = nil
	w.competitorFitness = nil
	w.competitorIndexes = nil
	w.duplicates = nil
	w.missing = nil
	w.marks = nil
	w.state = workspaceReleased
}

func (w *Workspace) Allocated() bool { return w.state == workspaceAllocated }
func (w *Workspace) Released() bool  { return w.state == workspaceReleased }
func (w *Workspace) Length() int     { return w.length }
func (w *Workspace) Capacity() int   { return w.capacity }

// Parents and Children expose the shared buffers so callers can compose
// their own generational steps out of the individual operators.
func (w *Workspace) Parents() [][]int  { return w.parents }
func (w *Workspace) Children() [][]int { return w.children }

// fits checks that pop can run on this workspace and allocates lazily.
func (w *Workspace) fits(pop *Population) error {
	if w.state == workspaceReleased {
		return ErrWorkspaceReleased
	}
	if pop.length != w.length {
		return fmt.Errorf("%w: workspace length %d, population length %d", ErrConfiguration, w.length, pop.length)
	}
	if pop.capacity > w.capacity {
		return fmt.Errorf("%w: workspace capacity %d below population capacity %d", ErrConfiguration, w.capacity, pop.capacity)
	}
	return w.Ensure()
}

// repairScratch sizes the mark table to a value range. It grows only when a
// wider domain appears.
func (w *Workspace) repairScratch(valueRange int) {
	if cap(w.marks) < valueRange {
		w.marks = make([]int, valueRange)
		w.missing = make([]int, 0, valueRange)
		w.stamp = 0
	}
	w.marks = w.marks[:valueRange]
}
