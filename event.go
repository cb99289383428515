package bgammon

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Events are always received FROM the server.

const (
	EventTypeWelcome     = "welcome"
	EventTypeHelp        = "help"
	EventTypePing        = "ping"
	EventTypeNotice      = "notice"
	EventTypeSay         = "say"
	EventTypeList        = "list"
	EventTypeJoined      = "joined"
	EventTypeFailedJoin  = "failedjoin"
	EventTypeLeft        = "left"
	EventTypeFailedLeave = "failedleave"
	EventTypeBoard       = "board"
	EventTypeRolled      = "rolled"
	EventTypeFailedRoll  = "failedroll"
	EventTypeMoved       = "moved"
	EventTypeFailedMove  = "failedmove"
	EventTypeSkipped     = "skipped"
	EventTypeWin         = "win"
)

type Event struct {
	Type   string
	Player string
}

type EventWelcome struct {
	Event
	PlayerName string
	Clients    int
	Games      int
}

// EventHelp carries help text. Message may span several lines.
type EventHelp struct {
	Event
	Topic   string
	Message string
}

type EventPing struct {
	Event
	Message string
}

type EventNotice struct {
	Event
	Message string
}

type EventSay struct {
	Event
	Message string
}

type GameListing struct {
	ID       int
	Password bool
	Players  int8
	AI       bool
	Name     string
}

type EventList struct {
	Event
	Games []GameListing
}

type EventJoined struct {
	Event
	GameID       int
	PlayerNumber int8
}

type EventFailedJoin struct {
	Event
	Reason string
}

type EventLeft struct {
	Event
}

type EventFailedLeave struct {
	Event
	Reason string
}

type EventBoard struct {
	Event
	GameState
}

type EventRolled struct {
	Event
	Roll1 int8
	Roll2 int8
}

type EventFailedRoll struct {
	Event
	Reason string
}

type EventMoved struct {
	Event
	Moves    []Move
	LastMove string
}

type EventFailedMove struct {
	Event
	From   int8
	To     int8
	Reason string
}

// EventSkipped is sent when a roll leaves the player without a legal move.
type EventSkipped struct {
	Event
	Roll1 int8
	Roll2 int8
}

type EventWin struct {
	Event
	Winner  int8
	WinType WinType
}

var eventConstructors = map[string]func() interface{}{
	EventTypeWelcome:     func() interface{} { return &EventWelcome{} },
	EventTypeHelp:        func() interface{} { return &EventHelp{} },
	EventTypePing:        func() interface{} { return &EventPing{} },
	EventTypeNotice:      func() interface{} { return &EventNotice{} },
	EventTypeSay:         func() interface{} { return &EventSay{} },
	EventTypeList:        func() interface{} { return &EventList{} },
	EventTypeJoined:      func() interface{} { return &EventJoined{} },
	EventTypeFailedJoin:  func() interface{} { return &EventFailedJoin{} },
	EventTypeLeft:        func() interface{} { return &EventLeft{} },
	EventTypeFailedLeave: func() interface{} { return &EventFailedLeave{} },
	EventTypeBoard:       func() interface{} { return &EventBoard{} },
	EventTypeRolled:      func() interface{} { return &EventRolled{} },
	EventTypeFailedRoll:  func() interface{} { return &EventFailedRoll{} },
	EventTypeMoved:       func() interface{} { return &EventMoved{} },
	EventTypeFailedMove:  func() interface{} { return &EventFailedMove{} },
	EventTypeSkipped:     func() interface{} { return &EventSkipped{} },
	EventTypeWin:         func() interface{} { return &EventWin{} },
}

var eventTypes = make(map[reflect.Type]string, len(eventConstructors))

func init() {
	for t, newEvent := range eventConstructors {
		eventTypes[reflect.TypeOf(newEvent())] = t
	}
}

type typedEvent interface {
	setType(t string)
}

func (e *Event) setType(t string) {
	e.Type = t
}

// EncodeEvent sets the Type of an event and returns it JSON formatted.
func EncodeEvent(ev interface{}) ([]byte, error) {
	t, ok := eventTypes[reflect.TypeOf(ev)]
	if !ok {
		return nil, fmt.Errorf("failed to encode event: unknown event %T", ev)
	}
	ev.(typedEvent).setType(t)
	return json.Marshal(ev)
}

// DecodeEvent decodes a JSON formatted event.
func DecodeEvent(message []byte) (interface{}, error) {
	e := &Event{}
	err := json.Unmarshal(message, e)
	if err != nil {
		return nil, err
	}

	newEvent, ok := eventConstructors[e.Type]
	if !ok {
		return nil, fmt.Errorf("failed to decode event: unknown event type: %s", e.Type)
	}
	ev := newEvent()
	err = json.Unmarshal(message, ev)
	if err != nil {
		return nil, err
	}
	return ev, nil
}
