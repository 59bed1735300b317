package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/core/services"
	"github.com/ememohq/ememo_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock MemoRepository (based on MemoService usage) ---
type MockMemoRepository struct {
	mock.Mock
	// AppendMinuteFn lets a test run the decide callback against a chosen
	// current status, the way the store does under its row lock.
	AppendMinuteFn func(ctx context.Context, memoID string, minute domain.Minute, decide func(current domain.MemoStatus) (domain.MemoStatus, error)) (*domain.Memo, error)
}

func (m *MockMemoRepository) FindMemoByID(ctx context.Context, memoID string) (*domain.Memo, error) {
	args := m.Called(ctx, memoID)
	var memo *domain.Memo
	if args.Get(0) != nil {
		memo = args.Get(0).(*domain.Memo)
	}
	return memo, args.Error(1)
}

func (m *MockMemoRepository) ListMemos(ctx context.Context, filter portsrepo.MemoListFilter) ([]domain.Memo, error) {
	args := m.Called(ctx, filter)
	var memos []domain.Memo
	if args.Get(0) != nil {
		memos = args.Get(0).([]domain.Memo)
	}
	return memos, args.Error(1)
}

func (m *MockMemoRepository) CountMemosByStatus(ctx context.Context, userID string) (map[domain.MemoStatus]int64, error) {
	args := m.Called(ctx, userID)
	var counts map[domain.MemoStatus]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[domain.MemoStatus]int64)
	}
	return counts, args.Error(1)
}

func (m *MockMemoRepository) SaveMemo(ctx context.Context, memo domain.Memo) error {
	args := m.Called(ctx, memo)
	return args.Error(0)
}

func (m *MockMemoRepository) UpdateMemoFields(ctx context.Context, memo domain.Memo) error {
	args := m.Called(ctx, memo)
	return args.Error(0)
}

func (m *MockMemoRepository) UpdateMemoStatus(ctx context.Context, memoID string, status domain.MemoStatus, userID string, now time.Time) error {
	args := m.Called(ctx, memoID, status, userID, now)
	return args.Error(0)
}

func (m *MockMemoRepository) SetMemoArchived(ctx context.Context, memoID string, archived bool, userID string, now time.Time) error {
	args := m.Called(ctx, memoID, archived, userID, now)
	return args.Error(0)
}

func (m *MockMemoRepository) DeleteMemo(ctx context.Context, memoID string) error {
	args := m.Called(ctx, memoID)
	return args.Error(0)
}

func (m *MockMemoRepository) AppendMinute(ctx context.Context, memoID string, minute domain.Minute, decide func(current domain.MemoStatus) (domain.MemoStatus, error)) (*domain.Memo, error) {
	if m.AppendMinuteFn != nil {
		return m.AppendMinuteFn(ctx, memoID, minute, decide)
	}
	args := m.Called(ctx, memoID, minute, mock.Anything)
	var memo *domain.Memo
	if args.Get(0) != nil {
		memo = args.Get(0).(*domain.Memo)
	}
	return memo, args.Error(1)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditEvents(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	var events []domain.AuditEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.AuditEvent)
	}
	return events, args.Error(1)
}

// --- Test Suite ---
type MemoServiceTestSuite struct {
	suite.Suite
	mockMemoRepo  *MockMemoRepository
	mockAuditRepo *MockAuditRepository
	service       portssvc.MemoSvcFacade
	senderID      string
	recipientID   string
}

func (suite *MemoServiceTestSuite) SetupTest() {
	suite.mockMemoRepo = new(MockMemoRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewMemoService(suite.mockMemoRepo, suite.mockAuditRepo)
	suite.senderID = uuid.NewString()
	suite.recipientID = uuid.NewString()
}

func (suite *MemoServiceTestSuite) memoWithStatus(memoID string, status domain.MemoStatus) *domain.Memo {
	return &domain.Memo{
		MemoID:  memoID,
		From:    suite.senderID,
		To:      []string{suite.recipientID},
		Subject: "Budget request",
		Message: "Please approve.",
		Status:  status,
		Minutes: []domain.Minute{},
	}
}

func (suite *MemoServiceTestSuite) reviewer() *domain.User {
	return &domain.User{
		UserID:     suite.recipientID,
		Name:       "Rev Iewer",
		Department: "Finance",
		Role:       domain.RoleManager,
	}
}

// --- CreateDraft Tests ---
func (suite *MemoServiceTestSuite) TestCreateDraft_StartsInitiated() {
	ctx := context.Background()

	suite.mockMemoRepo.On("SaveMemo", ctx, mock.MatchedBy(func(m domain.Memo) bool {
		return m.From == suite.senderID && m.Status == domain.MemoInitiated && m.MemoID != ""
	})).Return(nil).Once()

	memo, err := suite.service.CreateDraft(ctx, suite.senderID, dto.CreateMemoRequest{
		To:      []string{suite.recipientID},
		Subject: "Budget request",
		Message: "Please approve.",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.MemoInitiated, memo.Status)
	suite.NotNil(memo.Minutes)
	suite.Empty(memo.Minutes)
	suite.mockMemoRepo.AssertExpectations(suite.T())
}

// --- Visibility Tests ---
func (suite *MemoServiceTestSuite) TestGetMemoByID_DraftHiddenFromRecipient() {
	ctx := context.Background()
	memoID := uuid.NewString()
	draft := suite.memoWithStatus(memoID, domain.MemoInitiated)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(draft, nil).Once()

	memo, err := suite.service.GetMemoByID(ctx, suite.recipientID, memoID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(memo)
}

func (suite *MemoServiceTestSuite) TestGetMemoByID_PendingVisibleToRecipient() {
	ctx := context.Background()
	memoID := uuid.NewString()
	pending := suite.memoWithStatus(memoID, domain.MemoPending)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()

	memo, err := suite.service.GetMemoByID(ctx, suite.recipientID, memoID)

	suite.Require().NoError(err)
	suite.Equal(memoID, memo.MemoID)
}

func (suite *MemoServiceTestSuite) TestGetMemoByID_StrangerReadsAsNotFound() {
	ctx := context.Background()
	memoID := uuid.NewString()
	pending := suite.memoWithStatus(memoID, domain.MemoPending)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()

	memo, err := suite.service.GetMemoByID(ctx, uuid.NewString(), memoID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(memo)
}

// --- UpdateDraft Tests ---
func (suite *MemoServiceTestSuite) TestUpdateDraft_SentMemoConflicts() {
	ctx := context.Background()
	memoID := uuid.NewString()
	pending := suite.memoWithStatus(memoID, domain.MemoPending)
	subject := "Revised"

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()

	memo, err := suite.service.UpdateDraft(ctx, suite.senderID, memoID, dto.UpdateMemoRequest{Subject: &subject})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(memo)
	suite.mockMemoRepo.AssertNotCalled(suite.T(), "UpdateMemoFields", mock.Anything, mock.Anything)
}

func (suite *MemoServiceTestSuite) TestUpdateDraft_CannotEmptyRecipients() {
	ctx := context.Background()
	memoID := uuid.NewString()
	draft := suite.memoWithStatus(memoID, domain.MemoInitiated)
	empty := []string{}

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(draft, nil).Once()

	memo, err := suite.service.UpdateDraft(ctx, suite.senderID, memoID, dto.UpdateMemoRequest{To: &empty})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(memo)
}

func (suite *MemoServiceTestSuite) TestUpdateDraft_MergesOnlyProvidedFields() {
	ctx := context.Background()
	memoID := uuid.NewString()
	draft := suite.memoWithStatus(memoID, domain.MemoInitiated)
	subject := "Revised budget request"

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(draft, nil).Once()
	suite.mockMemoRepo.On("UpdateMemoFields", ctx, mock.MatchedBy(func(m domain.Memo) bool {
		return m.Subject == subject && m.Message == "Please approve."
	})).Return(nil).Once()

	memo, err := suite.service.UpdateDraft(ctx, suite.senderID, memoID, dto.UpdateMemoRequest{Subject: &subject})

	suite.Require().NoError(err)
	suite.Equal(subject, memo.Subject)
	suite.Equal("Please approve.", memo.Message)
	suite.mockMemoRepo.AssertExpectations(suite.T())
}

// --- Send Tests ---
func (suite *MemoServiceTestSuite) TestSend_TransitionsToPending() {
	ctx := context.Background()
	memoID := uuid.NewString()
	draft := suite.memoWithStatus(memoID, domain.MemoInitiated)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(draft, nil).Once()
	suite.mockMemoRepo.On("UpdateMemoStatus", ctx, memoID, domain.MemoPending, suite.senderID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	memo, err := suite.service.Send(ctx, suite.senderID, memoID)

	suite.Require().NoError(err)
	suite.Equal(domain.MemoPending, memo.Status)
	suite.mockMemoRepo.AssertExpectations(suite.T())
}

func (suite *MemoServiceTestSuite) TestSend_AlreadySentConflicts() {
	ctx := context.Background()
	memoID := uuid.NewString()
	pending := suite.memoWithStatus(memoID, domain.MemoPending)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()

	memo, err := suite.service.Send(ctx, suite.senderID, memoID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(memo)
	suite.mockMemoRepo.AssertNotCalled(suite.T(), "UpdateMemoStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- DeleteMemo Tests ---
func (suite *MemoServiceTestSuite) sender() *domain.User {
	return &domain.User{UserID: suite.senderID, Name: "Sen Der", Role: domain.RoleMember}
}

func (suite *MemoServiceTestSuite) TestDeleteMemo_SenderDeletesDraft() {
	ctx := context.Background()
	memoID := uuid.NewString()
	draft := suite.memoWithStatus(memoID, domain.MemoInitiated)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(draft, nil).Once()
	suite.mockMemoRepo.On("DeleteMemo", ctx, memoID).Return(nil).Once()

	err := suite.service.DeleteMemo(ctx, suite.sender(), memoID)

	suite.Require().NoError(err)
	suite.mockMemoRepo.AssertExpectations(suite.T())
}

func (suite *MemoServiceTestSuite) TestDeleteMemo_SenderCannotDeleteSentMemo() {
	ctx := context.Background()
	memoID := uuid.NewString()
	approved := suite.memoWithStatus(memoID, domain.MemoApproved)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(approved, nil).Once()

	err := suite.service.DeleteMemo(ctx, suite.sender(), memoID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.mockMemoRepo.AssertNotCalled(suite.T(), "DeleteMemo", mock.Anything, mock.Anything)
}

func (suite *MemoServiceTestSuite) TestDeleteMemo_AdminDeletesSentMemo() {
	ctx := context.Background()
	memoID := uuid.NewString()
	approved := suite.memoWithStatus(memoID, domain.MemoApproved)
	admin := &domain.User{UserID: uuid.NewString(), Name: "Admin", Role: domain.RoleAdmin}

	// The admin is no party to the memo; memo:delete bypasses visibility
	// and the draft-only rule.
	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(approved, nil).Once()
	suite.mockMemoRepo.On("DeleteMemo", ctx, memoID).Return(nil).Once()

	err := suite.service.DeleteMemo(ctx, admin, memoID)

	suite.Require().NoError(err)
	suite.mockMemoRepo.AssertExpectations(suite.T())
}

func (suite *MemoServiceTestSuite) TestDeleteMemo_RecipientForbidden() {
	ctx := context.Background()
	memoID := uuid.NewString()
	pending := suite.memoWithStatus(memoID, domain.MemoPending)
	recipient := &domain.User{UserID: suite.recipientID, Role: domain.RoleMember}

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()

	err := suite.service.DeleteMemo(ctx, recipient, memoID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockMemoRepo.AssertNotCalled(suite.T(), "DeleteMemo", mock.Anything, mock.Anything)
}

// --- AppendMinute Tests ---
func (suite *MemoServiceTestSuite) TestAppendMinute_ApprovalClosesMemo() {
	ctx := context.Background()
	memoID := uuid.NewString()
	pending := suite.memoWithStatus(memoID, domain.MemoPending)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()
	suite.mockMemoRepo.AppendMinuteFn = func(ctx context.Context, gotMemoID string, minute domain.Minute, decide func(domain.MemoStatus) (domain.MemoStatus, error)) (*domain.Memo, error) {
		suite.Equal(memoID, gotMemoID)
		suite.Equal(suite.recipientID, minute.Author)
		suite.Equal("Finance", minute.Department)

		next, err := decide(domain.MemoPending)
		suite.Require().NoError(err)
		suite.Equal(domain.MemoApproved, next)

		updated := suite.memoWithStatus(memoID, next)
		updated.Minutes = []domain.Minute{minute}
		return updated, nil
	}

	memo, err := suite.service.AppendMinute(ctx, suite.reviewer(), memoID, dto.AppendMinuteRequest{
		Message: "Looks good.",
		Verdict: domain.VerdictApproved,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.MemoApproved, memo.Status)
	suite.Len(memo.Minutes, 1)
}

func (suite *MemoServiceTestSuite) TestAppendMinute_RejectionClosesCycleAtReviewed() {
	ctx := context.Background()
	memoID := uuid.NewString()
	pending := suite.memoWithStatus(memoID, domain.MemoPending)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()
	suite.mockMemoRepo.AppendMinuteFn = func(ctx context.Context, gotMemoID string, minute domain.Minute, decide func(domain.MemoStatus) (domain.MemoStatus, error)) (*domain.Memo, error) {
		next, err := decide(domain.MemoPending)
		suite.Require().NoError(err)
		suite.Equal(domain.MemoReviewed, next)
		return suite.memoWithStatus(memoID, next), nil
	}

	memo, err := suite.service.AppendMinute(ctx, suite.reviewer(), memoID, dto.AppendMinuteRequest{
		Message: "Numbers are off.",
		Verdict: domain.VerdictRejected,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.MemoReviewed, memo.Status)
}

func (suite *MemoServiceTestSuite) TestAppendMinute_CommentLeavesStatusUntouched() {
	ctx := context.Background()
	memoID := uuid.NewString()
	pending := suite.memoWithStatus(memoID, domain.MemoPending)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()
	suite.mockMemoRepo.AppendMinuteFn = func(ctx context.Context, gotMemoID string, minute domain.Minute, decide func(domain.MemoStatus) (domain.MemoStatus, error)) (*domain.Memo, error) {
		next, err := decide(domain.MemoPending)
		suite.Require().NoError(err)
		suite.Equal(domain.MemoPending, next)
		return suite.memoWithStatus(memoID, next), nil
	}

	memo, err := suite.service.AppendMinute(ctx, suite.reviewer(), memoID, dto.AppendMinuteRequest{
		Message: "Who signed this off?",
		Verdict: domain.VerdictComment,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.MemoPending, memo.Status)
}

func (suite *MemoServiceTestSuite) TestAppendMinute_ApprovedMemoRefusesMinutes() {
	ctx := context.Background()
	memoID := uuid.NewString()
	// Stale read saw the memo pending, but by the time the store locks the
	// row a concurrent approval has closed it.
	pending := suite.memoWithStatus(memoID, domain.MemoPending)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(pending, nil).Once()
	suite.mockMemoRepo.AppendMinuteFn = func(ctx context.Context, gotMemoID string, minute domain.Minute, decide func(domain.MemoStatus) (domain.MemoStatus, error)) (*domain.Memo, error) {
		_, err := decide(domain.MemoApproved)
		suite.Require().Error(err)
		return nil, err
	}

	memo, err := suite.service.AppendMinute(ctx, suite.reviewer(), memoID, dto.AppendMinuteRequest{
		Message: "Late objection.",
		Verdict: domain.VerdictRejected,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(memo)
}

func (suite *MemoServiceTestSuite) TestAppendMinute_DraftConflicts() {
	ctx := context.Background()
	memoID := uuid.NewString()
	draft := suite.memoWithStatus(memoID, domain.MemoInitiated)
	draft.From = suite.recipientID // reviewer authored the draft, so it is visible

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(draft, nil).Once()

	memo, err := suite.service.AppendMinute(ctx, suite.reviewer(), memoID, dto.AppendMinuteRequest{
		Message: "Too early.",
		Verdict: domain.VerdictComment,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(memo)
}

func (suite *MemoServiceTestSuite) TestAppendMinute_MemberLacksReviewPermission() {
	ctx := context.Background()
	member := &domain.User{UserID: suite.recipientID, Role: domain.RoleMember}

	memo, err := suite.service.AppendMinute(ctx, member, uuid.NewString(), dto.AppendMinuteRequest{
		Message: "I approve this.",
		Verdict: domain.VerdictApproved,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(memo)
	suite.mockMemoRepo.AssertNotCalled(suite.T(), "FindMemoByID", mock.Anything, mock.Anything)
}

// --- ForceStatus Tests ---
func (suite *MemoServiceTestSuite) TestForceStatus_RecordsAuditEvent() {
	ctx := context.Background()
	memoID := uuid.NewString()
	reviewed := suite.memoWithStatus(memoID, domain.MemoReviewed)
	admin := &domain.User{UserID: uuid.NewString(), Name: "Admin", Role: domain.RoleAdmin}

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(reviewed, nil).Once()
	suite.mockMemoRepo.On("UpdateMemoStatus", ctx, memoID, domain.MemoPending, admin.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditEvent", ctx, mock.MatchedBy(func(e domain.AuditEvent) bool {
		return e.EntityType == "memo" && e.EntityID == memoID && e.Action == "force_status" && e.ActorID == admin.UserID
	})).Return(nil).Once()

	memo, err := suite.service.ForceStatus(ctx, admin, memoID, dto.ForceStatusRequest{
		Status: domain.MemoPending,
		Reason: "Reopening after resubmission",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.MemoPending, memo.Status)
	suite.mockMemoRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *MemoServiceTestSuite) TestForceStatus_ManagerForbidden() {
	ctx := context.Background()
	manager := &domain.User{UserID: uuid.NewString(), Role: domain.RoleManager}

	memo, err := suite.service.ForceStatus(ctx, manager, uuid.NewString(), dto.ForceStatusRequest{
		Status: domain.MemoPending,
		Reason: "n/a",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(memo)
}

func (suite *MemoServiceTestSuite) TestForceStatus_UnknownStatusRejected() {
	ctx := context.Background()
	admin := &domain.User{UserID: uuid.NewString(), Role: domain.RoleAdmin}

	memo, err := suite.service.ForceStatus(ctx, admin, uuid.NewString(), dto.ForceStatusRequest{
		Status: domain.MemoStatus("shredded"),
		Reason: "n/a",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(memo)
}

// --- Archive Tests ---
func (suite *MemoServiceTestSuite) TestArchive_AnyPartyAtAnyStatus() {
	ctx := context.Background()
	memoID := uuid.NewString()
	approved := suite.memoWithStatus(memoID, domain.MemoApproved)

	suite.mockMemoRepo.On("FindMemoByID", ctx, memoID).Return(approved, nil).Once()
	suite.mockMemoRepo.On("SetMemoArchived", ctx, memoID, true, suite.recipientID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.Archive(ctx, suite.recipientID, memoID)

	suite.Require().NoError(err)
	suite.mockMemoRepo.AssertExpectations(suite.T())
}

func TestMemoServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemoServiceTestSuite))
}
