package evo

import "fmt"

// Repair restores the no-duplicate invariant on the first n children of a
// NonRepeatable population. Second and later occurrences of a value (and any
// gene outside the domain) are replaced with the domain values the child is
// missing, in shuffled order. First occurrences are never touched.
// ws provides scratch space; a nil ws allocates it per call.
func Repair(rng Source, pop *Population, children [][]int, n int, ws *Workspace) error {
	if rng == nil {
		return fmt.Errorf("%w: random source is required", ErrInvalidArgument)
	}
	if pop == nil {
		return fmt.Errorf("%w: population is required", ErrInvalidArgument)
	}
	if pop.released {
		return ErrReleased
	}
	if pop.uniqueness != NonRepeatable {
		return fmt.Errorf("%w: repair requires a non-repeatable population", ErrConfiguration)
	}
	if n < 0 || n > len(children) {
		return fmt.Errorf("%w: repair of %d children got %d rows", ErrInvalidArgument, n, len(children))
	}
	if ws == nil {
		ws = &Workspace{length: pop.length, capacity: n}
	} else if ws.Released() {
		return ErrWorkspaceReleased
	}
	ws.repairScratch(pop.valueRange)

	for i := 0; i < n; i++ {
		child := children[i]
		if len(child) != pop.length {
			return fmt.Errorf("%w: child %d has length %d, want %d", ErrInvalidArgument, i, len(child), pop.length)
		}

		ws.stamp++
		duplicates := ws.duplicates[:0]
		for j, gene := range child {
			v := gene - pop.minValue
			if v < 0 || v >= pop.valueRange || ws.marks[v] == ws.stamp {
				duplicates = append(duplicates, j)
				continue
			}
			ws.marks[v] = ws.stamp
		}
		ws.duplicates = duplicates
		if len(duplicates) == 0 {
			continue
		}

		missing := ws.missing[:0]
		for v, mark := range ws.marks {
			if mark != ws.stamp {
				missing = append(missing, pop.reference[v])
			}
		}
		ws.missing = missing
		Shuffle(rng, missing)
		for k, pos := range duplicates {
			child[pos] = missing[k]
		}
	}
	return nil
}
