//go:build !race

package docflow

func passwordHashCost() int {
	return 14
}
