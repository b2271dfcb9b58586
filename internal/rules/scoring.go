package rules

// Scores are the points each player holds through territory control.
type Scores struct {
	PlayerOne int `json:"playerOneScore"`
	PlayerTwo int `json:"playerTwoScore"`
}

// Leader returns the winner by score, or WinnerDraw on a tie.
func (s Scores) Leader() Winner {
	switch {
	case s.PlayerOne > s.PlayerTwo:
		return WinnerPlayerOne
	case s.PlayerTwo > s.PlayerOne:
		return WinnerPlayerTwo
	default:
		return WinnerDraw
	}
}

// CalculateScores sums the point values of the territories each player
// controls. control maps territory id to its controller.
func CalculateScores(m *Map, control map[int]Slot) Scores {
	var s Scores
	for _, t := range m.Territories() {
		switch control[t.ID] {
		case PlayerOne:
			s.PlayerOne += t.PointValue
		case PlayerTwo:
			s.PlayerTwo += t.PointValue
		}
	}
	return s
}

// AllTerritoriesClaimed reports whether every territory has a controller.
func AllTerritoriesClaimed(m *Map, control map[int]Slot) bool {
	for _, t := range m.Territories() {
		if !control[t.ID].Valid() {
			return false
		}
	}
	return true
}

// EndReason explains why a game finished.
type EndReason string

const (
	EndNone                  EndReason = ""
	EndAllTerritoriesClaimed EndReason = "all_territories_claimed"
	EndBothOutOfTiles        EndReason = "both_out_of_tiles"
	EndNoMoves               EndReason = "no_moves"
)

type GameEndInput struct {
	Map                *Map
	Control            map[int]Slot
	PlayerOneInventory []TileID
	PlayerTwoInventory []TileID
	Leftover           []TileID
	CurrentPlayer      Slot
}

type GameEnd struct {
	Ended  bool
	Reason EndReason
	Winner Winner
	Scores Scores
}

// CheckGameEnd evaluates the three terminating conditions in order: every
// territory claimed, both hands empty, or the player to move holding no
// tiles with nothing left to draw.
func CheckGameEnd(in GameEndInput) GameEnd {
	scores := CalculateScores(in.Map, in.Control)
	res := GameEnd{Scores: scores}

	switch {
	case AllTerritoriesClaimed(in.Map, in.Control):
		res.Ended, res.Reason, res.Winner = true, EndAllTerritoriesClaimed, scores.Leader()
	case len(in.PlayerOneInventory) == 0 && len(in.PlayerTwoInventory) == 0:
		res.Ended, res.Reason, res.Winner = true, EndBothOutOfTiles, scores.Leader()
	case len(inventoryOf(in, in.CurrentPlayer)) == 0 && len(in.Leftover) == 0:
		res.Ended, res.Reason, res.Winner = true, EndNoMoves, WinnerFor(in.CurrentPlayer.Opponent())
	}
	return res
}

func inventoryOf(in GameEndInput, s Slot) []TileID {
	if s == PlayerTwo {
		return in.PlayerTwoInventory
	}
	return in.PlayerOneInventory
}
