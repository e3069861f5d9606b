package services

import (
	"context"
	"errors"
	"strings"

	"chamaai_backend/internal/email"
	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProposalService interface {
	SubmitProposal(db *gorm.DB, userID, requestID string, req *dto.SubmitProposalRequest) (*dto.ProposalResponse, error)
	ListProposals(ctx context.Context, db *gorm.DB, clientID, requestID string) (*dto.ListResponse[dto.ProposalResponse], error)
	ListMyProposals(ctx context.Context, db *gorm.DB, userID string) (*dto.ListResponse[dto.ProposalResponse], error)

	AcceptProposal(db *gorm.DB, clientID, proposalID string) (*dto.AcceptProposalResponse, error)
	RejectProposal(db *gorm.DB, clientID, proposalID string) (*dto.ProposalResponse, error)
}

type proposalService struct {
	proposalRepo repositories.ProposalRepository
	requestRepo  repositories.RequestRepository
	providerRepo repositories.ProviderRepository
	userRepo     repositories.UserRepository
	emailService email.Provider
	validator    *validator.Validator
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	requestRepo repositories.RequestRepository,
	providerRepo repositories.ProviderRepository,
	userRepo repositories.UserRepository,
	emailService email.Provider,
	v *validator.Validator,
) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		requestRepo:  requestRepo,
		providerRepo: providerRepo,
		userRepo:     userRepo,
		emailService: emailService,
		validator:    v,
	}
}

func (s *proposalService) SubmitProposal(db *gorm.DB, userID, requestID string, req *dto.SubmitProposalRequest) (*dto.ProposalResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperrors.FieldError("message", "This field is required")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	provider, err := s.providerRepo.FindByProfileID(tx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProviderNotFound) {
			return nil, apperrors.ErrNotServiceProvider
		}
		return nil, apperrors.InternalError(err)
	}

	request, err := s.requestRepo.FindByIDForUpdate(tx, requestID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if request.ClientID == userID {
		return nil, apperrors.ErrOwnRequest
	}
	if request.Status != models.RequestStatusPending {
		return nil, invalidRequestState(request.Status, request.Status)
	}
	if !request.IsPublic && !sameID(request.TargetProviderID, provider.ID) {
		return nil, apperrors.ErrRequestNotVisible
	}

	exists, err := s.proposalRepo.ExistsForProvider(tx, request.ID, provider.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateProposal
	}

	proposal := &models.Proposal{
		RequestID:  request.ID,
		ProviderID: provider.ID,
		Price:      req.Price,
		Status:     models.ProposalStatusPending,
		Message:    message,
	}
	if err := s.proposalRepo.Create(tx, proposal); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateProposal
		}
		return nil, apperrors.InternalError(err)
	}

	created, err := s.proposalRepo.FindByID(tx, proposal.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.LifecycleLog("proposal", created.ID, nil, created.Status)
	s.notifyProposalReceived(db, request, provider, created.Price)

	resp := dto.NewProposalResponse(created)
	return &resp, nil
}

// ListProposals - предложения по заявке видит только ее клиент
func (s *proposalService) ListProposals(ctx context.Context, db *gorm.DB, clientID, requestID string) (*dto.ListResponse[dto.ProposalResponse], error) {
	request, err := s.requestRepo.FindByID(db.WithContext(ctx), requestID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if request.ClientID != clientID {
		return nil, apperrors.ErrNotRequestOwner
	}

	res, err := loadList(ctx, "proposal", request.ID, func(ctx context.Context, requestID string) ([]dto.ProposalResponse, error) {
		proposals, err := s.proposalRepo.ListByRequest(db.WithContext(ctx), requestID)
		if err != nil {
			return nil, err
		}
		return proposalCards(proposals), nil
	})
	return dto.NewListResponse(res, nil), err
}

func (s *proposalService) ListMyProposals(ctx context.Context, db *gorm.DB, userID string) (*dto.ListResponse[dto.ProposalResponse], error) {
	provider, err := s.providerRepo.FindByProfileID(db.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProviderNotFound) {
			return nil, apperrors.ErrNotServiceProvider
		}
		return nil, apperrors.InternalError(err)
	}

	res, err := loadList(ctx, "proposal", provider.ID, func(ctx context.Context, providerID string) ([]dto.ProposalResponse, error) {
		proposals, err := s.proposalRepo.ListByProvider(db.WithContext(ctx), providerID)
		if err != nil {
			return nil, err
		}
		return proposalCards(proposals), nil
	})
	return dto.NewListResponse(res, nil), err
}

// AcceptProposal - одна транзакция из условных UPDATE: заявка pending -> in_progress,
// предложение pending -> accepted, остальные pending -> rejected.
// Если любой UPDATE не затронул строк, транзакция откатывается с InvalidState,
// поэтому из двух одновременных принятий проходит только одно.
func (s *proposalService) AcceptProposal(db *gorm.DB, clientID, proposalID string) (*dto.AcceptProposalResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	proposal, err := s.proposalRepo.FindByID(tx, proposalID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	request, err := s.requestRepo.FindByID(tx, proposal.RequestID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if request.ClientID != clientID {
		return nil, apperrors.ErrNotRequestOwner
	}

	rows, err := s.requestRepo.UpdateStatus(tx, request.ID, models.RequestStatusPending, models.RequestStatusInProgress,
		map[string]interface{}{
			"assigned_provider_id": proposal.ProviderID,
			"accepted_proposal_id": proposal.ID,
		})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, invalidRequestState(request.Status, models.RequestStatusInProgress)
	}

	rows, err = s.proposalRepo.UpdateStatus(tx, proposal.ID, models.ProposalStatusPending, models.ProposalStatusAccepted)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrInvalidProposalState.WithDetails(map[string]string{"status": string(proposal.Status)})
	}

	rejectedIDs, err := s.proposalRepo.RejectSiblings(tx, request.ID, proposal.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	updatedRequest, err := s.requestRepo.FindByID(tx, request.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	accepted, err := s.proposalRepo.FindByID(tx, proposal.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.LifecycleLog("request", request.ID, models.RequestStatusPending, models.RequestStatusInProgress)
	logger.LifecycleLog("proposal", proposal.ID, models.ProposalStatusPending, models.ProposalStatusAccepted)
	if len(rejectedIDs) > 0 {
		logger.Info("Sibling proposals rejected", "request_id", request.ID, "count", len(rejectedIDs))
	}
	s.notifyProposalAccepted(db, updatedRequest, accepted)

	if rejectedIDs == nil {
		rejectedIDs = []string{}
	}
	return &dto.AcceptProposalResponse{
		Request:     dto.NewServiceRequestResponse(updatedRequest),
		Accepted:    dto.NewProposalResponse(accepted),
		RejectedIDs: rejectedIDs,
	}, nil
}

// RejectProposal отклоняет одно предложение, остальные не трогает
func (s *proposalService) RejectProposal(db *gorm.DB, clientID, proposalID string) (*dto.ProposalResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	proposal, err := s.proposalRepo.FindByID(tx, proposalID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if proposal.Request.ClientID != clientID {
		return nil, apperrors.ErrNotRequestOwner
	}

	rows, err := s.proposalRepo.UpdateStatus(tx, proposal.ID, models.ProposalStatusPending, models.ProposalStatusRejected)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrInvalidProposalState.WithDetails(map[string]string{"status": string(proposal.Status)})
	}

	updated, err := s.proposalRepo.FindByID(tx, proposal.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.LifecycleLog("proposal", proposal.ID, proposal.Status, models.ProposalStatusRejected)
	resp := dto.NewProposalResponse(updated)
	return &resp, nil
}

// ==========================
// Notifications
// ==========================
// Письма уходят после коммита; ошибка отправки только логируется.

func (s *proposalService) notifyProposalReceived(db *gorm.DB, request *models.ServiceRequest, provider *models.ServiceProvider, price float64) {
	client, err := s.userRepo.FindByID(db, request.ClientID)
	if err != nil {
		logger.Warn("Proposal notification skipped", "request_id", request.ID, "error", err)
		return
	}
	if err := s.emailService.SendProposalReceived(client.Email, request.Client.FullName, request.Title, provider.Profile.FullName, price); err != nil {
		logger.Error("Failed to send proposal notification", "request_id", request.ID, "error", err)
	}
}

func (s *proposalService) notifyProposalAccepted(db *gorm.DB, request *models.ServiceRequest, proposal *models.Proposal) {
	providerUser, err := s.userRepo.FindByID(db, proposal.Provider.ProfileID)
	if err != nil {
		logger.Warn("Acceptance notification skipped", "proposal_id", proposal.ID, "error", err)
		return
	}
	if err := s.emailService.SendProposalAccepted(providerUser.Email, proposal.Provider.Profile.FullName, request.Title, request.Client.FullName); err != nil {
		logger.Error("Failed to send acceptance notification", "proposal_id", proposal.ID, "error", err)
	}
}

func proposalCards(proposals []models.Proposal) []dto.ProposalResponse {
	out := make([]dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		out = append(out, dto.NewProposalResponse(&proposals[i]))
	}
	return out
}
