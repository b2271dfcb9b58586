package rules

import "fmt"

// Element is the elemental value carried by a tile.
type Element int

const (
	// Unknown is a wildcard that must resolve to a concrete element before
	// it participates in combat.
	Unknown Element = iota
	Fire
	Ice
	Wind
	Storm
	Water
)

// Cycle is the fixed dominance order. Each element beats the one after it,
// and Water wraps around to beat Fire.
var Cycle = []Element{Fire, Ice, Wind, Storm, Water}

var elementNames = map[Element]string{
	Unknown: "unknown",
	Fire:    "fire",
	Ice:     "ice",
	Wind:    "wind",
	Storm:   "storm",
	Water:   "water",
}

func (e Element) String() string {
	if n, ok := elementNames[e]; ok {
		return n
	}
	return fmt.Sprintf("element(%d)", int(e))
}

// Concrete reports whether e is one of the five cycle elements.
func (e Element) Concrete() bool {
	return e >= Fire && e <= Water
}

func (e Element) MarshalText() ([]byte, error) {
	if _, ok := elementNames[e]; !ok {
		return nil, fmt.Errorf("unknown element: %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *Element) UnmarshalText(text []byte) error {
	v, err := ParseElement(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseElement maps a lowercase element name to its Element.
func ParseElement(s string) (Element, error) {
	for e, n := range elementNames {
		if n == s {
			return e, nil
		}
	}
	return Unknown, fmt.Errorf("unknown element: %q", s)
}

func cycleIndex(e Element) int {
	if !e.Concrete() {
		return -1
	}
	return int(e - Fire)
}

// Successor returns the element e beats.
func Successor(e Element) (Element, bool) {
	i := cycleIndex(e)
	if i < 0 {
		return Unknown, false
	}
	return Cycle[(i+1)%len(Cycle)], true
}

// Predecessor returns the element that beats e.
func Predecessor(e Element) (Element, bool) {
	i := cycleIndex(e)
	if i < 0 {
		return Unknown, false
	}
	return Cycle[(i-1+len(Cycle))%len(Cycle)], true
}

// Beats reports whether attacker defeats defender. Unknown never wins or
// loses a contest.
func Beats(attacker, defender Element) bool {
	next, ok := Successor(attacker)
	if !ok || !defender.Concrete() {
		return false
	}
	return next == defender
}

// RequiredCounter returns the unique element that beats defender. ok is
// false when defender is Unknown.
func RequiredCounter(defender Element) (Element, bool) {
	return Predecessor(defender)
}
