package protocol

import (
	"bytes"
	"errors"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-covenants/internal/rules"
)

// ReasonInternal marks a failure that is not the client's fault.
const ReasonInternal rules.Reason = "internal"

var templateFuncs = sprig.TxtFuncMap()

var rejectionTemplates = map[rules.Reason]string{
	rules.ReasonNotOwned:          `Tile {{ .Tile }} is not in your inventory.`,
	rules.ReasonOffTerritory:      `Cell {{ .Cell }} is not part of any territory.`,
	rules.ReasonWrongTerritory:    `Tiles must go on territory {{ .Territory }}.`,
	rules.ReasonSelfOccupied:      `You already hold cell {{ .Cell }}.`,
	rules.ReasonDoesNotBeat:       `{{ .Attacker | title }} cannot beat {{ .Defender }}.`,
	rules.ReasonNotYourTurn:       `It is not your turn.`,
	rules.ReasonElementRequired:   `Choose an element for the unknown tile.`,
	rules.ReasonWrongElement:      `The unknown tile must become {{ .Required }}.`,
	rules.ReasonForfeitNotAllowed: `You still have a move and cannot forfeit.`,
	rules.ReasonChaosNotAllowed:   `Draw from the leftover pool only with an empty hand.`,
	rules.ReasonNotInPool:         `Tile {{ .Tile }} is not in the leftover pool.`,
	rules.ReasonGameOver:          `The game is over.`,
	rules.ReasonNotInitialized:    `Tiles have not been dealt yet.`,
	rules.ReasonMalformedTile:     `Tile id {{ .Tile | quote }} is malformed.`,
	rules.ReasonDuplicateTile:     `Tile {{ .Tile }} was dealt more than once.`,
	rules.ReasonRoomNotFound:      `Room not found.`,
	rules.ReasonRoomFull:          `Room is full.`,
	rules.ReasonNotInRoom:         `You are not in that room.`,
	rules.ReasonRateLimited:       `Too many messages, slow down.`,
	rules.ReasonBadRequest:        `Malformed request{{ if .Detail }}: {{ .Detail }}{{ end }}.`,
	ReasonInternal:                `Something went wrong on the server.`,
}

var rejections = parseRejections()

func parseRejections() map[rules.Reason]*template.Template {
	out := make(map[rules.Reason]*template.Template, len(rejectionTemplates))
	for reason, text := range rejectionTemplates {
		out[reason] = template.Must(template.New(string(reason)).Funcs(templateFuncs).Parse(text))
	}
	return out
}

// Reject converts an error into the rejection sent back to a client. Errors
// that are not rule errors are reported as internal without detail.
func Reject(err error) Rejection {
	var re *rules.RuleError
	if !errors.As(err, &re) {
		return Rejection{Reason: ReasonInternal, Message: render(ReasonInternal, nil)}
	}
	return Rejection{Reason: re.Reason, Message: render(re.Reason, re)}
}

// BadRequest builds the rejection for a frame that could not be decoded.
func BadRequest(err error) Rejection {
	data := map[string]string{}
	if err != nil {
		data["Detail"] = err.Error()
	}
	return Rejection{Reason: rules.ReasonBadRequest, Message: expand(rules.ReasonBadRequest, data)}
}

func render(reason rules.Reason, re *rules.RuleError) string {
	data := map[string]string{}
	if re != nil {
		data["Tile"] = string(re.Tile)
		data["Cell"] = re.Cell.String()
		data["Territory"] = strconv.Itoa(re.Territory)
		data["Attacker"] = re.Attacker.String()
		data["Defender"] = re.Defender.String()
		data["Required"] = re.Required.String()
	}
	return expand(reason, data)
}

func expand(reason rules.Reason, data map[string]string) string {
	tmpl, ok := rejections[reason]
	if !ok {
		return string(reason)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return string(reason)
	}
	return buf.String()
}
