package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/dto"
	"github.com/google/uuid"
)

// memoService implements the MemoSvcFacade interface
type memoService struct {
	BaseService
	memoRepo  portsrepo.MemoRepositoryFacade
	auditRepo portsrepo.AuditRepository
	dashboard portssvc.DashboardSvcFacade
}

// MemoServiceOption is a functional option for configuring the memo service
type MemoServiceOption func(*memoService)

// WithMemoDashboard makes memo mutations invalidate the parties' dashboard caches
func WithMemoDashboard(dashboard portssvc.DashboardSvcFacade) MemoServiceOption {
	return func(s *memoService) {
		s.dashboard = dashboard
	}
}

// NewMemoService creates a new memo service with the provided dependencies
func NewMemoService(memoRepo portsrepo.MemoRepositoryFacade, auditRepo portsrepo.AuditRepository, options ...MemoServiceOption) portssvc.MemoSvcFacade {
	svc := &memoService{
		memoRepo:  memoRepo,
		auditRepo: auditRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure memoService implements the MemoSvcFacade interface
var _ portssvc.MemoSvcFacade = (*memoService)(nil)

func containsUser(ids []string, userID string) bool {
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}

// canSee reports whether the user is a party to the memo. Drafts are visible
// only to their sender.
func canSee(memo *domain.Memo, userID string) bool {
	if memo.From == userID {
		return true
	}
	if memo.IsDraft() {
		return false
	}
	return containsUser(memo.To, userID) || containsUser(memo.CC, userID)
}

// invalidateParties drops the cached dashboard counts of everyone the memo
// touches.
func (s *memoService) invalidateParties(ctx context.Context, memo *domain.Memo) {
	if s.dashboard == nil {
		return
	}
	s.dashboard.InvalidateCounts(ctx, memo.From)
	for _, id := range memo.To {
		s.dashboard.InvalidateCounts(ctx, id)
	}
	for _, id := range memo.CC {
		s.dashboard.InvalidateCounts(ctx, id)
	}
}

// findVisibleMemo retrieves a memo and enforces party visibility. A memo the
// user is no party to reads as not found.
func (s *memoService) findVisibleMemo(ctx context.Context, userID, memoID string) (*domain.Memo, error) {
	memo, err := s.memoRepo.FindMemoByID(ctx, memoID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find memo by ID",
				slog.String("memo_id", memoID))
		}
		return nil, err
	}
	if !canSee(memo, userID) {
		return nil, apperrors.ErrNotFound
	}
	return memo, nil
}

// GetMemoByID retrieves a memo the user may see (sender or recipient).
func (s *memoService) GetMemoByID(ctx context.Context, userID string, memoID string) (*domain.Memo, error) {
	return s.findVisibleMemo(ctx, userID, memoID)
}

// ListMemos retrieves the user's memos for a box with optional filters.
func (s *memoService) ListMemos(ctx context.Context, userID string, params dto.ListMemosParams) ([]domain.Memo, error) {
	filter := portsrepo.MemoListFilter{
		UserID: userID,
		Box:    portsrepo.MemoBox(params.Box),
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if params.Status != "" {
		status := domain.MemoStatus(params.Status)
		filter.Status = &status
	}
	filter.IsFinancial = params.IsFinancial

	memos, err := s.memoRepo.ListMemos(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list memos",
			slog.String("user_id", userID),
			slog.String("box", params.Box))
		return nil, err
	}
	if memos == nil {
		return []domain.Memo{}, nil
	}
	return memos, nil
}

// CreateDraft creates a memo in initiated status.
func (s *memoService) CreateDraft(ctx context.Context, fromUserID string, req dto.CreateMemoRequest) (*domain.Memo, error) {
	now := time.Now()
	memo := domain.Memo{
		MemoID:      uuid.NewString(),
		From:        fromUserID,
		To:          req.To,
		CC:          req.CC,
		Subject:     req.Subject,
		Message:     req.Message,
		SideNote:    req.SideNote,
		Status:      domain.MemoInitiated,
		IsFinancial: req.IsFinancial,
		Attachments: dto.ToDomainAttachments(req.Attachments),
		Minutes:     []domain.Minute{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     fromUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: fromUserID,
		},
	}

	if err := s.memoRepo.SaveMemo(ctx, memo); err != nil {
		s.LogError(ctx, err, "Failed to save memo draft",
			slog.String("from_user_id", fromUserID))
		return nil, err
	}

	s.invalidateParties(ctx, &memo)
	s.LogInfo(ctx, "Memo draft created",
		slog.String("memo_id", memo.MemoID),
		slog.String("from_user_id", fromUserID))
	return &memo, nil
}

// UpdateDraft updates allow-listed fields of a memo still in initiated
// status. Fields absent from the request are left untouched.
func (s *memoService) UpdateDraft(ctx context.Context, userID string, memoID string, req dto.UpdateMemoRequest) (*domain.Memo, error) {
	memo, err := s.findVisibleMemo(ctx, userID, memoID)
	if err != nil {
		return nil, err
	}
	if memo.From != userID {
		return nil, apperrors.ErrForbidden
	}
	if !memo.IsDraft() {
		s.LogDebug(ctx, "Rejected edit of a sent memo",
			slog.String("memo_id", memoID),
			slog.String("status", string(memo.Status)))
		return nil, apperrors.ErrStateConflict
	}

	if req.To != nil {
		if len(*req.To) == 0 {
			return nil, fmt.Errorf("%w: recipient list cannot be emptied", apperrors.ErrValidation)
		}
		memo.To = *req.To
	}
	if req.CC != nil {
		memo.CC = *req.CC
	}
	if req.Subject != nil {
		memo.Subject = *req.Subject
	}
	if req.Message != nil {
		memo.Message = *req.Message
	}
	if req.SideNote != nil {
		memo.SideNote = *req.SideNote
	}
	if req.IsFinancial != nil {
		memo.IsFinancial = *req.IsFinancial
	}
	if req.Attachments != nil {
		memo.Attachments = dto.ToDomainAttachments(*req.Attachments)
	}
	memo.LastUpdatedAt = time.Now()
	memo.LastUpdatedBy = userID

	if err := s.memoRepo.UpdateMemoFields(ctx, *memo); err != nil {
		s.LogError(ctx, err, "Failed to update memo draft",
			slog.String("memo_id", memoID))
		return nil, err
	}
	return memo, nil
}

// Send transitions the memo initiated -> pending, making it visible to its
// recipients.
func (s *memoService) Send(ctx context.Context, userID string, memoID string) (*domain.Memo, error) {
	memo, err := s.findVisibleMemo(ctx, userID, memoID)
	if err != nil {
		return nil, err
	}
	if memo.From != userID {
		return nil, apperrors.ErrForbidden
	}
	if !memo.CanSend() {
		s.LogDebug(ctx, "Rejected send of a memo not in initiated status",
			slog.String("memo_id", memoID),
			slog.String("status", string(memo.Status)))
		return nil, apperrors.ErrStateConflict
	}

	now := time.Now()
	if err := s.memoRepo.UpdateMemoStatus(ctx, memoID, domain.MemoPending, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to send memo",
			slog.String("memo_id", memoID))
		return nil, err
	}
	memo.Status = domain.MemoPending
	memo.LastUpdatedAt = now
	memo.LastUpdatedBy = userID

	s.invalidateParties(ctx, memo)
	s.LogInfo(ctx, "Memo sent",
		slog.String("memo_id", memoID),
		slog.String("from_user_id", userID),
		slog.Int("recipient_count", len(memo.To)+len(memo.CC)))
	return memo, nil
}

// DeleteMemo hard-deletes a memo. The sender may delete their own draft; a
// holder of the memo:delete permission may delete any memo at any status,
// regardless of party membership.
func (s *memoService) DeleteMemo(ctx context.Context, actor *domain.User, memoID string) error {
	var memo *domain.Memo
	var err error
	if domain.HasPermission(actor.Role, domain.PermMemoDelete) {
		memo, err = s.memoRepo.FindMemoByID(ctx, memoID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to find memo for deletion",
					slog.String("memo_id", memoID))
			}
			return err
		}
	} else {
		memo, err = s.findVisibleMemo(ctx, actor.UserID, memoID)
		if err != nil {
			return err
		}
		if memo.From != actor.UserID {
			return apperrors.ErrForbidden
		}
		if !memo.IsDraft() {
			return apperrors.ErrStateConflict
		}
	}

	if err := s.memoRepo.DeleteMemo(ctx, memoID); err != nil {
		s.LogError(ctx, err, "Failed to delete memo",
			slog.String("memo_id", memoID))
		return err
	}

	s.invalidateParties(ctx, memo)
	s.LogInfo(ctx, "Memo deleted",
		slog.String("memo_id", memoID),
		slog.String("user_id", actor.UserID),
		slog.String("status", string(memo.Status)))
	return nil
}

// AppendMinute appends a review minute and applies any induced status
// transition atomically. The decision runs against the status read under the
// store's row lock, so two concurrent reviewers cannot both approve.
func (s *memoService) AppendMinute(ctx context.Context, reviewer *domain.User, memoID string, req dto.AppendMinuteRequest) (*domain.Memo, error) {
	if err := s.RequirePermission(ctx, reviewer, domain.PermMemoReview); err != nil {
		return nil, err
	}

	memo, err := s.findVisibleMemo(ctx, reviewer.UserID, memoID)
	if err != nil {
		return nil, err
	}
	if memo.IsDraft() {
		return nil, apperrors.ErrStateConflict
	}

	minute := domain.Minute{
		MinuteID:    uuid.NewString(),
		MemoID:      memoID,
		Author:      reviewer.UserID,
		AuthorName:  reviewer.Name,
		Department:  reviewer.Department,
		Message:     req.Message,
		Verdict:     req.Verdict,
		Attachments: dto.ToDomainAttachments(req.Attachments),
		CreatedAt:   time.Now(),
	}

	updated, err := s.memoRepo.AppendMinute(ctx, memoID, minute, func(current domain.MemoStatus) (domain.MemoStatus, error) {
		if current == domain.MemoInitiated {
			return current, apperrors.ErrStateConflict
		}
		return domain.NextStatusForVerdict(current, req.Verdict)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStateConflict) {
			s.LogDebug(ctx, "Rejected minute on a closed or unsent memo",
				slog.String("memo_id", memoID),
				slog.String("verdict", string(req.Verdict)))
		} else {
			s.LogError(ctx, err, "Failed to append minute",
				slog.String("memo_id", memoID))
		}
		return nil, err
	}

	s.invalidateParties(ctx, updated)
	s.LogInfo(ctx, "Minute appended",
		slog.String("memo_id", memoID),
		slog.String("author_id", reviewer.UserID),
		slog.String("verdict", string(req.Verdict)),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// Archive hides the memo from the active boxes. Any party may archive at any
// status; the lifecycle stage is untouched.
func (s *memoService) Archive(ctx context.Context, userID string, memoID string) error {
	return s.setArchived(ctx, userID, memoID, true)
}

// Unarchive returns the memo to the active boxes.
func (s *memoService) Unarchive(ctx context.Context, userID string, memoID string) error {
	return s.setArchived(ctx, userID, memoID, false)
}

func (s *memoService) setArchived(ctx context.Context, userID string, memoID string, archived bool) error {
	memo, err := s.findVisibleMemo(ctx, userID, memoID)
	if err != nil {
		return err
	}

	if err := s.memoRepo.SetMemoArchived(ctx, memoID, archived, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to set memo archived flag",
			slog.String("memo_id", memoID),
			slog.Bool("archived", archived))
		return err
	}

	s.invalidateParties(ctx, memo)
	return nil
}

// ForceStatus is the administrative override: it sets the status directly,
// bypassing the verdict rules, and records who did it and why.
func (s *memoService) ForceStatus(ctx context.Context, actor *domain.User, memoID string, req dto.ForceStatusRequest) (*domain.Memo, error) {
	if err := s.RequirePermission(ctx, actor, domain.PermMemoForce); err != nil {
		return nil, err
	}
	if !domain.ValidMemoStatus(req.Status) {
		return nil, apperrors.ErrValidation
	}

	memo, err := s.memoRepo.FindMemoByID(ctx, memoID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find memo for status override",
				slog.String("memo_id", memoID))
		}
		return nil, err
	}

	now := time.Now()
	previous := memo.Status
	if err := s.memoRepo.UpdateMemoStatus(ctx, memoID, req.Status, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to force memo status",
			slog.String("memo_id", memoID),
			slog.String("status", string(req.Status)))
		return nil, err
	}
	memo.Status = req.Status
	memo.LastUpdatedAt = now
	memo.LastUpdatedBy = actor.UserID

	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		EntityType: "memo",
		EntityID:   memoID,
		Action:     "force_status",
		ActorID:    actor.UserID,
		Detail:     fmt.Sprintf("%s -> %s: %s", previous, req.Status, req.Reason),
		CreatedAt:  now,
	}
	if err := s.auditRepo.SaveAuditEvent(ctx, event); err != nil {
		// The status change is already committed; log and continue.
		s.LogError(ctx, err, "Failed to record status override audit event",
			slog.String("memo_id", memoID))
	}

	s.invalidateParties(ctx, memo)
	s.LogInfo(ctx, "Memo status forced",
		slog.String("memo_id", memoID),
		slog.String("actor_id", actor.UserID),
		slog.String("from_status", string(previous)),
		slog.String("to_status", string(req.Status)))
	return memo, nil
}
