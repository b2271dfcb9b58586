package rules

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	TilesPerElement = 4
	UnknownTiles    = 1
	TilesPerPlayer  = 7
	LeftoverTiles   = 7
	TotalTiles      = TilesPerElement*5 + UnknownTiles
)

// TileID identifies a tile within a session. The format is
// <element>-<owner>-<n> where owner is p1, p2 or leftover.
type TileID string

const leftoverOwner = "leftover"

// NewTileID builds the id of the n-th tile dealt to owner. NoSlot deals to
// the leftover pool.
func NewTileID(e Element, owner Slot, n int) TileID {
	o := leftoverOwner
	if owner.Valid() {
		o = fmt.Sprintf("p%d", owner)
	}
	return TileID(fmt.Sprintf("%s-%s-%d", e, o, n))
}

// Element extracts the tile's intrinsic element from its id.
func (id TileID) Element() (Element, error) {
	prefix, rest, ok := strings.Cut(string(id), "-")
	if !ok || rest == "" {
		return Unknown, &RuleError{Reason: ReasonMalformedTile, Tile: id}
	}
	e, err := ParseElement(prefix)
	if err != nil {
		return Unknown, &RuleError{Reason: ReasonMalformedTile, Tile: id}
	}
	return e, nil
}

// MustElement is Element for ids already known to be well formed.
func (id TileID) MustElement() Element {
	e, err := id.Element()
	if err != nil {
		panic(err)
	}
	return e
}

// Deal is the initial distribution of tiles for a session.
type Deal struct {
	PlayerOne []TileID `json:"playerOnePieces"`
	PlayerTwo []TileID `json:"playerTwoPieces"`
	Leftover  []TileID `json:"leftoverTiles"`
}

// NewDeal shuffles the full tile set and deals seven tiles to each player,
// leaving the rest in the leftover pool.
func NewDeal(rng *rand.Rand) Deal {
	set := make([]Element, 0, TotalTiles)
	for _, e := range Cycle {
		for i := 0; i < TilesPerElement; i++ {
			set = append(set, e)
		}
	}
	for i := 0; i < UnknownTiles; i++ {
		set = append(set, Unknown)
	}

	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(set), func(i, j int) { set[i], set[j] = set[j], set[i] })

	var d Deal
	for i, e := range set {
		switch {
		case i < TilesPerPlayer:
			d.PlayerOne = append(d.PlayerOne, NewTileID(e, PlayerOne, i))
		case i < 2*TilesPerPlayer:
			d.PlayerTwo = append(d.PlayerTwo, NewTileID(e, PlayerTwo, i-TilesPerPlayer))
		default:
			d.Leftover = append(d.Leftover, NewTileID(e, NoSlot, i-2*TilesPerPlayer))
		}
	}
	return d
}
