package identifier

import (
	"strings"

	"github.com/jpickens/crosscheck/internal/model"
)

// IndividualName is a structured person name. The Aliased primary is the
// derived full-name string; the structured parts drive the weighted
// comparison.
type IndividualName struct {
	aliased *model.Aliased

	Title  string `json:"title,omitempty"`
	First  string `json:"first,omitempty"`
	Middle string `json:"middle,omitempty"`
	Last   string `json:"last,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

// NewIndividualName builds a name identifier. The full-name term is derived
// from the non-empty parts and attributed to the given source.
func NewIndividualName(title, first, middle, last, suffix string, source model.SourceID, position int, role string) (*IndividualName, error) {
	n := &IndividualName{Title: title, First: first, Middle: middle, Last: last, Suffix: suffix}
	term, err := model.NewAttributedTerm(n.deriveFull(), source, position, role)
	if err != nil {
		return nil, err
	}
	al, err := model.NewAliased(term)
	if err != nil {
		return nil, err
	}
	n.aliased = al
	return n, nil
}

func (n *IndividualName) deriveFull() string {
	parts := []string{n.Title, n.First, n.Middle, n.Last, n.Suffix}
	var nonEmpty []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// Kind implements Identifier.
func (n *IndividualName) Kind() Kind { return KindIndividualName }

// Aliased implements Identifier.
func (n *IndividualName) Aliased() *model.Aliased { return n.aliased }

// FullName returns the derived full-name string.
func (n *IndividualName) FullName() string { return n.aliased.Primary().Value() }

// Matches reports whether value equals the full name or a recorded
// alternative spelling.
func (n *IndividualName) Matches(value string) bool {
	if normalize(value) == normalize(n.FullName()) {
		return true
	}
	return n.aliased.Matches(value)
}

// Clone returns a deep copy.
func (n *IndividualName) Clone() *IndividualName {
	if n == nil {
		return nil
	}
	return &IndividualName{
		aliased: n.aliased.Clone(),
		Title:   n.Title,
		First:   n.First,
		Middle:  n.Middle,
		Last:    n.Last,
		Suffix:  n.Suffix,
	}
}
