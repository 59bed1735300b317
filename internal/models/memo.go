package models

import "time"

// Memo is the database representation of a memo row. Recipients are stored
// as text[] columns; minutes and attachments live in their own tables.
type Memo struct {
	MemoID      string   `db:"memo_id"`
	FromUserID  string   `db:"from_user_id"`
	Recipients  []string `db:"recipients"`
	CCList      []string `db:"cc_list"`
	Subject     string   `db:"subject"`
	Message     string   `db:"message"`
	SideNote    string   `db:"side_note"`
	Status      string   `db:"status"`
	IsFinancial bool     `db:"is_financial"`
	IsArchived  bool     `db:"is_archived"`
	AuditFields
}

// Minute is the database representation of a memo minute row. Rows are
// insert-only; there is no update path.
type Minute struct {
	MinuteID   string    `db:"minute_id"`
	MemoID     string    `db:"memo_id"`
	AuthorID   string    `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Department string    `db:"department"`
	Message    string    `db:"message"`
	Verdict    string    `db:"verdict"`
	CreatedAt  time.Time `db:"created_at"`
}

// Attachment is the database representation of an attachment row. MinuteID
// is NULL for memo-level attachments.
type Attachment struct {
	AttachmentID string `db:"attachment_id"`
	MemoID       string `db:"memo_id"`
	MinuteID     string `db:"minute_id"` // empty when attached to the memo itself
	Name         string `db:"name"`
	URL          string `db:"url"`
	Position     int    `db:"position"`
}
