package server

import "github.com/jlouis/glicko2"

type ratingPlayer struct {
	r       float64
	rd      float64
	sigma   float64
	outcome float64
}

func (p ratingPlayer) R() float64 {
	return p.r
}

func (p ratingPlayer) RD() float64 {
	return p.rd
}

func (p ratingPlayer) Sigma() float64 {
	return p.sigma
}

func (p ratingPlayer) SJ() float64 {
	return p.outcome
}

// rank returns the new ratings of two players after a game. Ratings are
// multiplied by 100.
func rank(rating1 int, rating2 int, player1Won bool) (int, int) {
	r1, r2 := float64(rating1)/100, float64(rating2)/100

	outcome1, outcome2 := 1.0, 0.0
	if !player1Won {
		outcome1, outcome2 = 0.0, 1.0
	}
	r1New, _, _ := glicko2.Rank(r1, 50, 0.06, []glicko2.Opponent{ratingPlayer{r2, 30, 0.06, outcome1}}, 0.6)
	r2New, _, _ := glicko2.Rank(r2, 50, 0.06, []glicko2.Opponent{ratingPlayer{r1, 30, 0.06, outcome2}}, 0.6)
	return int(r1New * 100), int(r2New * 100)
}
