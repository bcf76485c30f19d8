package datagen

import "fmt"

// CanonicalCornerOrder is the reference reading order for square corners.
// Topology lookup tables are keyed by configurations in this order.
var CanonicalCornerOrder = [4]string{"bottom-left", "bottom-right", "top-right", "top-left"}

// validateCornerOrder checks that order is a permutation of the canonical
// corner names.
func validateCornerOrder(order []string) ([4]string, error) {
	if len(order) != 4 {
		return [4]string{}, fmt.Errorf("datagen: corner_order must have 4 elements, got %d", len(order))
	}
	var out [4]string
	copy(out[:], order)
	seen := make(map[string]bool, 4)
	for _, name := range order {
		seen[name] = true
	}
	for _, name := range CanonicalCornerOrder {
		if !seen[name] {
			return [4]string{}, fmt.Errorf("datagen: corner_order must be a permutation of %v", CanonicalCornerOrder)
		}
	}
	return out, nil
}

// cornerOrderPermutation maps each canonical corner position to its position
// in the given order: perm[i] is where canonical corner i appears in order.
func cornerOrderPermutation(order [4]string) [4]int {
	var perm [4]int
	for i, name := range CanonicalCornerOrder {
		for j, got := range order {
			if got == name {
				perm[i] = j
				break
			}
		}
	}
	return perm
}

// permuteConfig gathers config through perm: out[i] = config[perm[i]].
func permuteConfig(config [4]int, perm [4]int) [4]int {
	var out [4]int
	for i := range perm {
		out[i] = config[perm[i]]
	}
	return out
}

// inversePerm returns the inverse 4-permutation: inv[perm[i]] = i.
func inversePerm(perm [4]int) [4]int {
	var inv [4]int
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// CanonicalizeConfig relabels a corner configuration by first occurrence
// starting at 0, so any renaming of the same pattern maps to one
// representative: (7, 5, 7, 3) becomes (0, 1, 0, 2).
func CanonicalizeConfig(config [4]int) [4]int {
	return relabelFirstOccurrence(config, 0)
}

func relabelFirstOccurrence(config [4]int, startLabel int) [4]int {
	seen := make(map[int]int, 4)
	next := startLabel
	var out [4]int
	for i, label := range config {
		mapped, ok := seen[label]
		if !ok {
			mapped = next
			seen[label] = mapped
			next++
		}
		out[i] = mapped
	}
	return out
}
