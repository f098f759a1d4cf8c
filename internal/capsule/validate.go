package capsule

import (
	"fmt"
)

// maxTreeDepth caps instance-tree nesting so a cyclic or adversarial
// composition cannot recurse without bound.
const maxTreeDepth = 64

// ValidateComposition checks structural well-formedness of a composition
// before any generation starts. Violations here are orchestrator
// preconditions: the whole export call is rejected.
func ValidateComposition(c *ProjectComposition) error {
	if c == nil {
		return fmt.Errorf("composition is nil")
	}
	if Normalize(c.Name) == "" {
		return fmt.Errorf("composition name must not be empty")
	}
	if c.Root == nil {
		return fmt.Errorf("composition %q has no root instance", c.Name)
	}
	seen := make(map[string]bool)
	return validateInstance(c.Root, seen, 0)
}

func validateInstance(inst *CapsuleInstance, seen map[string]bool, depth int) error {
	if inst == nil {
		return fmt.Errorf("nil instance in tree")
	}
	if depth > maxTreeDepth {
		return fmt.Errorf("instance tree exceeds maximum depth %d", maxTreeDepth)
	}
	if inst.ID == "" {
		return fmt.Errorf("instance of capsule %q has no id", inst.CapsuleID)
	}
	if inst.CapsuleID == "" {
		return fmt.Errorf("instance %q has no capsule id", inst.ID)
	}
	if seen[inst.ID] {
		return fmt.Errorf("duplicate instance id %q", inst.ID)
	}
	seen[inst.ID] = true

	for _, child := range inst.Children {
		if err := validateInstance(child, seen, depth+1); err != nil {
			return err
		}
	}
	for _, slot := range slotNames(inst) {
		for _, child := range inst.Slots[slot] {
			if err := validateInstance(child, seen, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Walk visits every instance in the tree in deterministic pre-order:
// the instance itself, then Children, then named slots in sorted order.
func Walk(root *CapsuleInstance, visit func(*CapsuleInstance) bool) {
	if root == nil {
		return
	}
	if !visit(root) {
		return
	}
	for _, child := range root.Children {
		Walk(child, visit)
	}
	for _, slot := range slotNames(root) {
		for _, child := range root.Slots[slot] {
			Walk(child, visit)
		}
	}
}

// CountInstances returns the number of instances in the tree.
func CountInstances(root *CapsuleInstance) int {
	n := 0
	Walk(root, func(*CapsuleInstance) bool {
		n++
		return true
	})
	return n
}

// DistinctCapsuleIDs returns the distinct capsule ids used by the tree, in
// first-seen pre-order.
func DistinctCapsuleIDs(root *CapsuleInstance) []string {
	seen := make(map[string]bool)
	var ids []string
	Walk(root, func(inst *CapsuleInstance) bool {
		if !seen[inst.CapsuleID] {
			seen[inst.CapsuleID] = true
			ids = append(ids, inst.CapsuleID)
		}
		return true
	})
	return ids
}

func slotNames(inst *CapsuleInstance) []string {
	return sortedKeys(inst.Slots)
}
