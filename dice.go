package bgammon

import (
	"crypto/rand"
	"math/big"
)

// NewDice returns the pips available for a roll. Doubles grant four uses of
// the same value.
func NewDice(roll1 int8, roll2 int8) []int8 {
	if roll1 == roll2 {
		return []int8{roll1, roll1, roll1, roll1}
	}
	return []int8{roll1, roll2}
}

// ValidDiceValues returns the positive pips of dice in their original order.
func ValidDiceValues(dice []int8) []int8 {
	var pips []int8
	for _, pip := range dice {
		if pip > 0 {
			pips = append(pips, pip)
		}
	}
	return pips
}

// HavePip returns whether the pip is among the available dice.
func HavePip(dice []int8, pip int8) bool {
	for _, d := range dice {
		if d == pip {
			return true
		}
	}
	return false
}

// RemovePip returns a copy of dice with a single use of pip removed.
func RemovePip(dice []int8, pip int8) []int8 {
	remaining := make([]int8, 0, len(dice))
	removed := false
	for _, d := range dice {
		if !removed && d == pip {
			removed = true
			continue
		}
		remaining = append(remaining, d)
	}
	return remaining
}

// uniquePips returns the distinct positive pips of dice in order.
func uniquePips(dice []int8) []int8 {
	var pips []int8
	for _, pip := range ValidDiceValues(dice) {
		if !HavePip(pips, pip) {
			pips = append(pips, pip)
		}
	}
	return pips
}

// RandInt returns a uniformly random integer in [0, max).
func RandInt(max int) int {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}
	return int(i.Int64())
}

// RollDie returns a random die value between 1 and 6.
func RollDie() int8 {
	return int8(RandInt(6) + 1)
}
