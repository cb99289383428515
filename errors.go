package bgammon

import "errors"

var (
	ErrNotYourTurn   = errors.New("it is not your turn")
	ErrNotRolled     = errors.New("you must roll before moving")
	ErrAlreadyRolled = errors.New("you have already rolled")
	ErrGameFinished  = errors.New("the game has finished")
	ErrNotStarted    = errors.New("the game has not started")
)

// MoveReason identifies the rule an illegal move violates.
type MoveReason int8

const (
	ReasonInvalidSpace MoveReason = iota + 1
	ReasonNoChecker
	ReasonBarFirst
	ReasonWrongDirection
	ReasonNoMatchingDie
	ReasonBlocked
	ReasonNotAllHome
	ReasonBearOffFarthest
)

var moveReasonText = map[MoveReason]string{
	ReasonInvalidSpace:    "invalid point",
	ReasonNoChecker:       "you have no checker on that point",
	ReasonBarFirst:        "must move from the bar first",
	ReasonWrongDirection:  "checkers may not move backward",
	ReasonNoMatchingDie:   "distance does not match any available die",
	ReasonBlocked:         "cannot land on 2+ opponent pieces",
	ReasonNotAllHome:      "all checkers must be home before bearing off",
	ReasonBearOffFarthest: "must bear off from the farthest point first",
}

func (r MoveReason) String() string {
	s, ok := moveReasonText[r]
	if !ok {
		return "illegal move"
	}
	return s
}

// MoveError is returned when a proposed move breaks a rule. The game state is
// never modified when a MoveError is returned.
type MoveError struct {
	Move   Move
	Reason MoveReason
}

func (e *MoveError) Error() string {
	return "illegal move " + FormatMove(e.Move) + ": " + e.Reason.String()
}

func illegal(move Move, reason MoveReason) *MoveError {
	return &MoveError{
		Move:   move,
		Reason: reason,
	}
}
