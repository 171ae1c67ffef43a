package resume

import (
	"fmt"
	"strings"
)

// Entity is anything stored in an ordered collection and addressed by id
type Entity interface {
	EntityID() string
}

// Direction is the way MoveByID shifts an item
type Direction int

// Move directions
const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// ParseDirection accepts "up" or "down", case-insensitively
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Up, fmt.Errorf("unknown direction %q", s)
	}
}

// IndexOf returns the position of the entity with the given id, or -1
func IndexOf[T Entity](items []T, id string) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

// Append returns a new slice with item added at the end
func Append[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

// RemoveByID returns a new slice without the entity with the given id.
// The second result is false, and items is returned as is, when no entity matched.
func RemoveByID[T Entity](items []T, id string) ([]T, bool) {
	i := IndexOf(items, id)
	if i < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}

// ReplaceByID returns a new slice where the entity with the given id is replaced by fn's result
func ReplaceByID[T Entity](items []T, id string, fn func(T) T) ([]T, bool) {
	i := IndexOf(items, id)
	if i < 0 {
		return items, false
	}
	out := cloneSlice(items)
	out[i] = fn(out[i])
	return out, true
}

// MoveByID swaps the entity with its neighbour in the given direction by removing it
// and reinserting it one position over. Moving the first item up or the last item down
// returns an unchanged copy. The second result is false when no entity matched.
func MoveByID[T Entity](items []T, id string, dir Direction) ([]T, bool) {
	i := IndexOf(items, id)
	if i < 0 {
		return items, false
	}

	target := i - 1
	if dir == Down {
		target = i + 1
	}
	if target < 0 || target >= len(items) {
		return cloneSlice(items), true
	}

	item := items[i]
	rest := make([]T, 0, len(items))
	rest = append(rest, items[:i]...)
	rest = append(rest, items[i+1:]...)

	out := make([]T, 0, len(items))
	out = append(out, rest[:target]...)
	out = append(out, item)
	return append(out, rest[target:]...), true
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
