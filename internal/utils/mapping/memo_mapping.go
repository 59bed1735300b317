package mapping

import (
	"github.com/ememohq/ememo_backend/internal/core/domain"
	"github.com/ememohq/ememo_backend/internal/models"
)

// ToModelMemo converts a domain Memo to a model Memo. Minutes and
// attachments are persisted separately.
func ToModelMemo(d domain.Memo) models.Memo {
	return models.Memo{
		MemoID:      d.MemoID,
		FromUserID:  d.From,
		Recipients:  d.To,
		CCList:      d.CC,
		Subject:     d.Subject,
		Message:     d.Message,
		SideNote:    d.SideNote,
		Status:      string(d.Status),
		IsFinancial: d.IsFinancial,
		IsArchived:  d.IsArchived,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMemo converts a model Memo to a domain Memo without minutes or
// attachments; callers fill those from their own tables.
func ToDomainMemo(m models.Memo) domain.Memo {
	return domain.Memo{
		MemoID:      m.MemoID,
		From:        m.FromUserID,
		To:          m.Recipients,
		CC:          m.CCList,
		Subject:     m.Subject,
		Message:     m.Message,
		SideNote:    m.SideNote,
		Status:      domain.MemoStatus(m.Status),
		IsFinancial: m.IsFinancial,
		IsArchived:  m.IsArchived,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMinute converts a model Minute to a domain Minute; attachments are
// filled by the caller.
func ToDomainMinute(m models.Minute) domain.Minute {
	return domain.Minute{
		MinuteID:   m.MinuteID,
		MemoID:     m.MemoID,
		Author:     m.AuthorID,
		AuthorName: m.AuthorName,
		Department: m.Department,
		Message:    m.Message,
		Verdict:    domain.MinuteVerdict(m.Verdict),
		CreatedAt:  m.CreatedAt,
	}
}

// ToModelMinute converts a domain Minute to a model Minute.
func ToModelMinute(d domain.Minute) models.Minute {
	return models.Minute{
		MinuteID:   d.MinuteID,
		MemoID:     d.MemoID,
		AuthorID:   d.Author,
		AuthorName: d.AuthorName,
		Department: d.Department,
		Message:    d.Message,
		Verdict:    string(d.Verdict),
		CreatedAt:  d.CreatedAt,
	}
}
