package rules

import "fmt"

// Reason is the machine-readable code of a rejected intent.
type Reason string

const (
	ReasonNotOwned          Reason = "not_owned"
	ReasonOffTerritory      Reason = "off_territory"
	ReasonWrongTerritory    Reason = "wrong_territory"
	ReasonSelfOccupied      Reason = "self_occupied"
	ReasonDoesNotBeat       Reason = "does_not_beat"
	ReasonNotYourTurn       Reason = "not_your_turn"
	ReasonElementRequired   Reason = "element_required"
	ReasonWrongElement      Reason = "wrong_element"
	ReasonForfeitNotAllowed Reason = "forfeit_not_allowed"
	ReasonChaosNotAllowed   Reason = "chaos_not_allowed"
	ReasonNotInPool         Reason = "not_in_pool"
	ReasonGameOver          Reason = "game_over"
	ReasonNotInitialized    Reason = "not_initialized"
	ReasonMalformedTile     Reason = "malformed_tile"
	ReasonDuplicateTile     Reason = "duplicate_tile"

	// Relay reasons. They reject an intent before it reaches a session.
	ReasonRoomNotFound Reason = "room_not_found"
	ReasonRoomFull     Reason = "room_full"
	ReasonNotInRoom    Reason = "not_in_room"
	ReasonRateLimited  Reason = "rate_limited"
	ReasonBadRequest   Reason = "bad_request"
)

// RuleError rejects an intent. It never indicates corrupted state: the
// session is left exactly as it was before the intent.
type RuleError struct {
	Reason Reason

	Tile      TileID
	Cell      Cell
	Territory int
	Attacker  Element
	Defender  Element
	Required  Element
}

func (e *RuleError) Error() string {
	switch e.Reason {
	case ReasonNotOwned:
		return fmt.Sprintf("tile %s is not in your inventory", e.Tile)
	case ReasonOffTerritory:
		return fmt.Sprintf("cell %s is not part of any territory", e.Cell)
	case ReasonWrongTerritory:
		return fmt.Sprintf("must place on territory %d", e.Territory)
	case ReasonSelfOccupied:
		return fmt.Sprintf("cell %s already holds your tile", e.Cell)
	case ReasonDoesNotBeat:
		return fmt.Sprintf("%s cannot beat %s", e.Attacker, e.Defender)
	case ReasonWrongElement:
		return fmt.Sprintf("unknown tile must resolve to %s", e.Required)
	case ReasonMalformedTile:
		return fmt.Sprintf("malformed tile id %q", e.Tile)
	case ReasonDuplicateTile:
		return fmt.Sprintf("tile %s dealt more than once", e.Tile)
	case ReasonNotInPool:
		return fmt.Sprintf("tile %s is not in the leftover pool", e.Tile)
	default:
		return string(e.Reason)
	}
}

// Is matches any RuleError with the same reason, so callers can compare
// against the sentinels below with errors.Is.
func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Reason == e.Reason
}

var (
	ErrNotOwned          = &RuleError{Reason: ReasonNotOwned}
	ErrOffTerritory      = &RuleError{Reason: ReasonOffTerritory}
	ErrWrongTerritory    = &RuleError{Reason: ReasonWrongTerritory}
	ErrSelfOccupied      = &RuleError{Reason: ReasonSelfOccupied}
	ErrDoesNotBeat       = &RuleError{Reason: ReasonDoesNotBeat}
	ErrNotYourTurn       = &RuleError{Reason: ReasonNotYourTurn}
	ErrElementRequired   = &RuleError{Reason: ReasonElementRequired}
	ErrWrongElement      = &RuleError{Reason: ReasonWrongElement}
	ErrForfeitNotAllowed = &RuleError{Reason: ReasonForfeitNotAllowed}
	ErrChaosNotAllowed   = &RuleError{Reason: ReasonChaosNotAllowed}
	ErrNotInPool         = &RuleError{Reason: ReasonNotInPool}
	ErrGameOver          = &RuleError{Reason: ReasonGameOver}
	ErrNotInitialized    = &RuleError{Reason: ReasonNotInitialized}
	ErrMalformedTile     = &RuleError{Reason: ReasonMalformedTile}
	ErrDuplicateTile     = &RuleError{Reason: ReasonDuplicateTile}
)
