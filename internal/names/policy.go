package names

import "strings"

// Kind is the kind of a resolution outcome.
type Kind int

const (
	Unresolved Kind = iota
	Fixed
	PartiallyFixed
)

func (k Kind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case PartiallyFixed:
		return "partially_fixed"
	default:
		return "unresolved"
	}
}

// Reasons attached to outcomes.
const (
	ReasonBothFromEmail      = "both names inferred from email"
	ReasonFirstOnlyFromEmail = "only a first name could be inferred from email"
	ReasonNoCandidate        = "no usable name in email"
	ReasonKeepLast           = "first name inferred from email, last name kept"
	ReasonSwapFromLast       = "first name taken from email surname, last name kept"
	ReasonKeepFirst          = "last name inferred from email, first name kept"
	ReasonFirstAsLast        = "email name used as last name after title"
	ReasonTitleSwap          = "title in first name; last name promoted to first"
	ReasonNoChange           = "no change"
	ReasonCollision          = "first/last collision"
	ReasonAmbiguous          = "ambiguous inference"
)

// Outcome is the decision for one record. For Unresolved outcomes First and
// Last are the original values; ProposedFirst and ProposedLast carry the
// rejected proposal when there was one.
type Outcome struct {
	Kind          Kind
	First         string
	Last          string
	Reason        string
	ProposedFirst string
	ProposedLast  string
}

// Changed reports whether the outcome rewrites the record.
func (o Outcome) Changed() bool {
	return o.Kind != Unresolved
}

// Policy combines a record's existing name fields with an email candidate.
// It never produces a value that is not one of the original fields or one of
// the candidate's components.
type Policy struct {
	classifier   *Classifier
	titleAdjunct map[string]bool
}

// NewPolicy builds a Policy over the given vocabulary.
func NewPolicy(v Vocabulary) *Policy {
	return &Policy{
		classifier:   NewClassifier(v),
		titleAdjunct: foldSet(v.TitlePrefixes),
	}
}

// Classifier returns the classifier the policy grades fields with.
func (p *Policy) Classifier() *Classifier {
	return p.classifier
}

// Resolve decides the final (first, last) pair for a record whose name fields
// are not both complete.
func (p *Policy) Resolve(first, last string, cand Candidate) Outcome {
	firstOK := p.classifier.Classify(first) == Complete
	lastOK := p.classifier.Classify(last) == Complete

	if firstOK && lastOK {
		return Outcome{Kind: Unresolved, First: first, Last: last, Reason: ReasonNoChange}
	}

	out := p.table(first, last, firstOK, lastOK, cand)

	// Title-swap correction takes precedence over the table.
	if p.classifier.IsTitle(first) && lastOK && cand.HasLast() {
		out = Outcome{Kind: Fixed, First: last, Last: cand.Last, Reason: ReasonTitleSwap}
	}

	return p.settle(first, last, out)
}

func (p *Policy) table(first, last string, firstOK, lastOK bool, cand Candidate) Outcome {
	unresolved := func(reason string) Outcome {
		return Outcome{Kind: Unresolved, First: first, Last: last, Reason: reason}
	}

	switch {
	case !firstOK && !lastOK:
		switch {
		case cand.HasFirst() && cand.HasLast():
			return Outcome{Kind: Fixed, First: cand.First, Last: cand.Last, Reason: ReasonBothFromEmail}
		case cand.HasFirst():
			return Outcome{Kind: PartiallyFixed, First: cand.First, Last: "", Reason: ReasonFirstOnlyFromEmail}
		default:
			return unresolved(ReasonNoCandidate)
		}

	case !firstOK && lastOK:
		switch {
		case cand.HasFirst():
			return Outcome{Kind: Fixed, First: cand.First, Last: last, Reason: ReasonKeepLast}
		case cand.HasLast() && p.classifier.Classify(cand.Last) == Complete:
			return Outcome{Kind: Fixed, First: cand.Last, Last: last, Reason: ReasonSwapFromLast}
		default:
			return unresolved(ReasonNoCandidate)
		}

	default: // first complete, last incomplete
		switch {
		case cand.HasLast():
			return Outcome{Kind: Fixed, First: first, Last: cand.Last, Reason: ReasonKeepFirst}
		case cand.HasFirst() && p.titleAdjunct[strings.ToLower(strings.TrimSuffix(strings.TrimSpace(first), "."))]:
			return Outcome{Kind: Fixed, First: first, Last: cand.First, Reason: ReasonFirstAsLast}
		case cand.HasFirst():
			return unresolved(ReasonAmbiguous)
		default:
			return unresolved(ReasonNoCandidate)
		}
	}
}

// settle downgrades proposals that would leave the record untouched or set
// both fields to the same name.
func (p *Policy) settle(first, last string, out Outcome) Outcome {
	if out.Kind == Unresolved {
		return out
	}

	if out.First == first && out.Last == last {
		return Outcome{
			Kind: Unresolved, First: first, Last: last, Reason: ReasonNoChange,
			ProposedFirst: out.First, ProposedLast: out.Last,
		}
	}

	if out.First != "" && strings.EqualFold(strings.TrimSpace(out.First), strings.TrimSpace(out.Last)) {
		return Outcome{
			Kind: Unresolved, First: first, Last: last, Reason: ReasonCollision,
			ProposedFirst: out.First, ProposedLast: out.Last,
		}
	}

	return out
}
