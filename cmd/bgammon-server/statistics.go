package main

import (
	"codeberg.org/gammonduel/bgammon"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

type rollStatistics struct {
	Total   int
	Doubles int
	OneSame int // Pairs sharing a value with the previous pair.
	Faces   [6]int

	// ChiSquare is the chi-square statistic of the face counts against a
	// uniform distribution, and PValue the probability of a statistic at
	// least as large from fair dice.
	ChiSquare float64
	PValue    float64
}

func collectRollStatistics(total int, rollDie func() int8) *rollStatistics {
	s := &rollStatistics{Total: total}
	var lastroll1, lastroll2 int8
	for i := 0; i < total; i++ {
		roll1, roll2 := rollDie(), rollDie()

		s.Faces[roll1-1]++
		s.Faces[roll2-1]++

		if roll1 == lastroll1 || roll1 == lastroll2 || roll2 == lastroll1 || roll2 == lastroll2 {
			s.OneSame++
		}
		if roll1 == roll2 {
			s.Doubles++
		}
		lastroll1, lastroll2 = roll1, roll2
	}

	observed := make([]float64, 6)
	expected := make([]float64, 6)
	for i, count := range s.Faces {
		observed[i] = float64(count)
		expected[i] = float64(total*2) / 6
	}
	s.ChiSquare = stat.ChiSquare(observed, expected)
	s.PValue = distuv.ChiSquared{K: 5}.Survival(s.ChiSquare)
	return s
}

func printRollStatistics(total int) {
	s := collectRollStatistics(total, bgammon.RollDie)
	percent := func(v int, of int) float64 {
		return float64(v) / float64(of) * 100
	}

	p := message.NewPrinter(language.English)
	p.Printf("Rolled %d pairs of dice.\nDoubles: %d (%.0f%%). One same as last: %d (%.0f%%).\n", s.Total, s.Doubles, percent(s.Doubles, s.Total), s.OneSame, percent(s.OneSame, s.Total))
	for i, count := range s.Faces {
		p.Printf("%ds: %d (%.1f%%)\n", i+1, count, percent(count, s.Total*2))
	}
	p.Printf("Chi-square: %.2f (p = %.3f)\n", s.ChiSquare, s.PValue)
}
