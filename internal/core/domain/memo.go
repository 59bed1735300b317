package domain

import (
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
)

// MemoStatus is the memo's current lifecycle stage.
type MemoStatus string

const (
	MemoInitiated MemoStatus = "initiated" // draft, visible only to its sender
	MemoPending   MemoStatus = "pending"   // sent, awaiting review
	MemoReviewed  MemoStatus = "reviewed"  // reviewed, not approved this cycle
	MemoApproved  MemoStatus = "approved"  // terminal
)

// MinuteVerdict classifies a review minute.
type MinuteVerdict string

const (
	VerdictApproved MinuteVerdict = "approved"
	VerdictRejected MinuteVerdict = "rejected"
	VerdictComment  MinuteVerdict = "comment"
)

// Attachment is a named file reference attached to a memo or a minute.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Minute is an immutable review entry appended to a memo by a reviewer.
// Minutes are append-only: once written they are never edited or removed.
type Minute struct {
	MinuteID    string        `json:"minuteID"`
	MemoID      string        `json:"memoID"`
	Author      string        `json:"author"` // UserID reference
	AuthorName  string        `json:"authorName"`
	Department  string        `json:"department"`
	Message     string        `json:"message"`
	Verdict     MinuteVerdict `json:"verdict"`
	Attachments []Attachment  `json:"attachments,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Memo is an internal routed message with a formal approval lifecycle.
type Memo struct {
	MemoID      string       `json:"memoID"` // Primary Key (e.g., UUID)
	From        string       `json:"from"`   // sender UserID
	To          []string     `json:"to"`     // recipient identities (user ids or emails)
	CC          []string     `json:"cc,omitempty"`
	Subject     string       `json:"subject"`
	Message     string       `json:"message"`
	SideNote    string       `json:"sideNote,omitempty"`
	Status      MemoStatus   `json:"status"`
	IsFinancial bool         `json:"isFinancial"`
	IsArchived  bool         `json:"isArchived"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Minutes     []Minute     `json:"minutes"`
	AuditFields
}

// NextStatusForVerdict decides the status transition induced by appending a
// minute with the given verdict. The first approved minute is sufficient to
// approve the memo; a rejection closes the cycle at reviewed; a comment
// leaves the status untouched. Appending to an approved memo is refused.
func NextStatusForVerdict(current MemoStatus, verdict MinuteVerdict) (MemoStatus, error) {
	if current == MemoApproved {
		return current, apperrors.ErrStateConflict
	}
	switch verdict {
	case VerdictApproved:
		return MemoApproved, nil
	case VerdictRejected:
		return MemoReviewed, nil
	case VerdictComment:
		return current, nil
	default:
		return current, apperrors.ErrValidation
	}
}

// CanSend reports whether the memo may transition initiated -> pending.
func (m *Memo) CanSend() bool {
	return m.Status == MemoInitiated
}

// IsDraft reports whether the memo is still editable by its sender.
func (m *Memo) IsDraft() bool {
	return m.Status == MemoInitiated
}

// ValidMemoStatus reports whether s is one of the defined lifecycle stages.
func ValidMemoStatus(s MemoStatus) bool {
	switch s {
	case MemoInitiated, MemoPending, MemoReviewed, MemoApproved:
		return true
	}
	return false
}
