package protocol

import (
	"errors"
	"testing"

	"github.com/pixil98/go-covenants/internal/rules"
	"github.com/pixil98/go-testutil"
)

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(TypePiecePlaced, PiecePlaced{
		RoomID:          "r1",
		TileID:          "unknown-p2-0",
		Position:        rules.Cell{X: 5, Y: 22},
		PlayerSlot:      rules.PlayerTwo,
		ResolvedElement: rules.Water,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	env, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "type", env.Type, TypePiecePlaced)

	var got PiecePlaced
	if err := env.Unmarshal(&got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room", got.RoomID, "r1")
	testutil.AssertEqual(t, "tile", got.TileID, rules.TileID("unknown-p2-0"))
	testutil.AssertEqual(t, "position", got.Position, rules.Cell{X: 5, Y: 22})
	testutil.AssertEqual(t, "slot", got.PlayerSlot, rules.PlayerTwo)
	testutil.AssertEqual(t, "element", got.ResolvedElement, rules.Water)
}

func TestDecode(t *testing.T) {
	tests := map[string]struct {
		data   string
		exp    MessageType
		expErr string
	}{
		"create room without payload": {
			data: `{"type":"create-room"}`,
			exp:  TypeCreateRoom,
		},
		"missing type": {
			data:   `{"payload":{}}`,
			expErr: "message type is required",
		},
		"not json": {
			data:   `create-room`,
			expErr: "unmarshalling envelope",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env, err := Decode([]byte(tt.data))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "type", env.Type, tt.exp)
		})
	}
}

func TestEnvelope_UnmarshalDeal(t *testing.T) {
	env, err := Decode([]byte(`{"type":"game-initialized","payload":{"roomId":"r1","playerOnePieces":["fire-p1-0"],"playerTwoPieces":["ice-p2-0","wind-p2-1"],"leftoverTiles":[]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got GameInitialized
	if err := env.Unmarshal(&got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room", got.RoomID, "r1")
	testutil.AssertEqual(t, "player one", len(got.PlayerOne), 1)
	testutil.AssertEqual(t, "player two", len(got.PlayerTwo), 2)
	testutil.AssertEqual(t, "leftover", len(got.Leftover), 0)
}

func TestReject(t *testing.T) {
	tests := map[string]struct {
		err        error
		expReason  rules.Reason
		expMessage string
	}{
		"does not beat": {
			err:        &rules.RuleError{Reason: rules.ReasonDoesNotBeat, Attacker: rules.Ice, Defender: rules.Fire},
			expReason:  rules.ReasonDoesNotBeat,
			expMessage: "Ice cannot beat fire.",
		},
		"wrong territory": {
			err:        &rules.RuleError{Reason: rules.ReasonWrongTerritory, Territory: 3},
			expReason:  rules.ReasonWrongTerritory,
			expMessage: "Tiles must go on territory 3.",
		},
		"malformed tile": {
			err:        &rules.RuleError{Reason: rules.ReasonMalformedTile, Tile: "coin"},
			expReason:  rules.ReasonMalformedTile,
			expMessage: `Tile id "coin" is malformed.`,
		},
		"wrapped sentinel": {
			err:        errors.Join(errors.New("room r1"), rules.ErrNotYourTurn),
			expReason:  rules.ReasonNotYourTurn,
			expMessage: "It is not your turn.",
		},
		"system error": {
			err:        errors.New("publish failed"),
			expReason:  ReasonInternal,
			expMessage: "Something went wrong on the server.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Reject(tt.err)
			testutil.AssertEqual(t, "reason", got.Reason, tt.expReason)
			testutil.AssertEqual(t, "message", got.Message, tt.expMessage)
		})
	}
}

func TestBadRequest(t *testing.T) {
	got := BadRequest(errors.New("unknown message type: shout"))
	testutil.AssertEqual(t, "reason", got.Reason, rules.ReasonBadRequest)
	testutil.AssertEqual(t, "message", got.Message, "Malformed request: unknown message type: shout.")
}
