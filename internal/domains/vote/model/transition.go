package model

// Op is the storage operation a vote submission resolves to
type Op int

const (
	OpInsert Op = iota + 1
	OpDelete
	OpReplace
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Transition is the vote state machine for one identity and book.
//
//	none     + k  -> k     (insert)
//	k        + k  -> none  (delete, toggle-off)
//	k        + !k -> !k    (replace)
//
// current is nil when no vote is recorded; next is nil when the vote is removed.
func Transition(current *Kind, submitted Kind) (next *Kind, op Op) {
	if current == nil {
		k := submitted
		return &k, OpInsert
	}

	if *current == submitted {
		return nil, OpDelete
	}

	k := submitted
	return &k, OpReplace
}
