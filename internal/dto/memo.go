package dto

import (
	"time"

	"github.com/ememohq/ememo_backend/internal/core/domain"
	"github.com/ememohq/ememo_backend/internal/utils"
)

// AttachmentPayload is a name/url pair attached to a memo or minute.
type AttachmentPayload struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

// CreateMemoRequest defines the data needed to create a memo draft.
type CreateMemoRequest struct {
	To          []string            `json:"to" binding:"required,min=1,dive,required"`
	CC          []string            `json:"cc"`
	Subject     string              `json:"subject" binding:"required"`
	Message     string              `json:"message" binding:"required"`
	SideNote    string              `json:"sideNote"`
	IsFinancial bool                `json:"isFinancial"`
	Attachments []AttachmentPayload `json:"attachments"`
}

// UpdateMemoRequest defines the draft-editable fields. Pointers distinguish
// "not provided" from zero values; anything outside this allow-list is
// rejected by binding, never merged.
type UpdateMemoRequest struct {
	To          *[]string            `json:"to"`
	CC          *[]string            `json:"cc"`
	Subject     *string              `json:"subject"`
	Message     *string              `json:"message"`
	SideNote    *string              `json:"sideNote"`
	IsFinancial *bool                `json:"isFinancial"`
	Attachments *[]AttachmentPayload `json:"attachments"`
}

// AppendMinuteRequest defines a review entry to append to a memo.
type AppendMinuteRequest struct {
	Message     string              `json:"message" binding:"required"`
	Verdict     domain.MinuteVerdict `json:"verdict" binding:"required,oneof=approved rejected comment"`
	Attachments []AttachmentPayload `json:"attachments"`
}

// ForceStatusRequest is the administrative override payload.
type ForceStatusRequest struct {
	Status domain.MemoStatus `json:"status" binding:"required,oneof=initiated pending reviewed approved"`
	Reason string            `json:"reason" binding:"required"`
}

// ListMemosParams defines query parameters for listing memos.
type ListMemosParams struct {
	Box         string `form:"box,default=inbox" binding:"omitempty,oneof=inbox sent archived"`
	Status      string `form:"status" binding:"omitempty,oneof=initiated pending reviewed approved"`
	IsFinancial *bool  `form:"isFinancial"`
	Limit       int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset      int    `form:"offset,default=0" binding:"omitempty,min=0"`
}

// MinuteResponse defines the data returned for a review minute.
type MinuteResponse struct {
	MinuteID    string               `json:"minuteID"`
	Author      string               `json:"author"`
	AuthorName  string               `json:"authorName"`
	Department  string               `json:"department"`
	Message     string               `json:"message"`
	Verdict     domain.MinuteVerdict `json:"verdict"`
	Attachments []AttachmentPayload  `json:"attachments,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// MemoResponse defines the data returned for a memo.
type MemoResponse struct {
	MemoID      string              `json:"memoID"`
	From        string              `json:"from"`
	To          []string            `json:"to"`
	CC          []string            `json:"cc,omitempty"`
	Subject     string              `json:"subject"`
	Message     string              `json:"message"`
	SideNote    string              `json:"sideNote,omitempty"`
	Status      domain.MemoStatus   `json:"status"`
	IsFinancial bool                `json:"isFinancial"`
	IsArchived  bool                `json:"isArchived"`
	Attachments []AttachmentPayload `json:"attachments,omitempty"`
	Minutes     []MinuteResponse    `json:"minutes"`
	// Date is the short display form of the creation time; CreatedAt stays
	// authoritative.
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListMemosResponse wraps a memo listing.
type ListMemosResponse struct {
	Memos []MemoResponse `json:"memos"`
}

func toAttachmentPayloads(attachments []domain.Attachment) []AttachmentPayload {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]AttachmentPayload, len(attachments))
	for i, a := range attachments {
		out[i] = AttachmentPayload{Name: a.Name, URL: a.URL}
	}
	return out
}

// ToDomainAttachments converts request attachments to domain values.
func ToDomainAttachments(attachments []AttachmentPayload) []domain.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]domain.Attachment, len(attachments))
	for i, a := range attachments {
		out[i] = domain.Attachment{Name: a.Name, URL: a.URL}
	}
	return out
}

// ToMinuteResponse converts a domain.Minute.
func ToMinuteResponse(m *domain.Minute) MinuteResponse {
	return MinuteResponse{
		MinuteID:    m.MinuteID,
		Author:      m.Author,
		AuthorName:  m.AuthorName,
		Department:  m.Department,
		Message:     m.Message,
		Verdict:     m.Verdict,
		Attachments: toAttachmentPayloads(m.Attachments),
		CreatedAt:   m.CreatedAt,
	}
}

// ToMemoResponse converts a domain.Memo.
func ToMemoResponse(m *domain.Memo) MemoResponse {
	minutes := make([]MinuteResponse, len(m.Minutes))
	for i := range m.Minutes {
		minutes[i] = ToMinuteResponse(&m.Minutes[i])
	}
	return MemoResponse{
		MemoID:      m.MemoID,
		From:        m.From,
		To:          m.To,
		CC:          m.CC,
		Subject:     m.Subject,
		Message:     m.Message,
		SideNote:    m.SideNote,
		Status:      m.Status,
		IsFinancial: m.IsFinancial,
		IsArchived:  m.IsArchived,
		Attachments: toAttachmentPayloads(m.Attachments),
		Minutes:     minutes,
		Date:        utils.FormatDisplayDate(m.CreatedAt),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.LastUpdatedAt,
	}
}

// ToListMemosResponse converts a slice of domain.Memo.
func ToListMemosResponse(memos []domain.Memo) ListMemosResponse {
	res := make([]MemoResponse, len(memos))
	for i := range memos {
		res[i] = ToMemoResponse(&memos[i])
	}
	return ListMemosResponse{Memos: res}
}
