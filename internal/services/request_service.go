package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/search"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// scheduledDateGrace - насколько в прошлом может лежать дата заявки (часовые пояса клиента)
const scheduledDateGrace = 24 * time.Hour

type RequestService interface {
	CreateRequest(db *gorm.DB, clientID string, req *dto.CreateServiceRequest) (*dto.ServiceRequestResponse, error)
	GetRequest(db *gorm.DB, requestID, viewerID string) (*dto.ServiceRequestResponse, error)
	ListOpen(ctx context.Context, db *gorm.DB, viewerID string, req *dto.RequestSearchRequest) (*dto.ListResponse[dto.ServiceRequestResponse], error)
	ListMine(ctx context.Context, db *gorm.DB, clientID, status string) (*dto.ListResponse[dto.ServiceRequestResponse], error)

	CompleteRequest(db *gorm.DB, clientID, requestID string) (*dto.ServiceRequestResponse, error)
	CancelRequest(db *gorm.DB, clientID, requestID string) (*dto.ServiceRequestResponse, error)
}

type requestService struct {
	requestRepo     repositories.RequestRepository
	proposalRepo    repositories.ProposalRepository
	providerRepo    repositories.ProviderRepository
	categoryService CategoryService
	validator       *validator.Validator
	defaultPageSize int
	now             func() time.Time
}

func NewRequestService(
	requestRepo repositories.RequestRepository,
	proposalRepo repositories.ProposalRepository,
	providerRepo repositories.ProviderRepository,
	categoryService CategoryService,
	v *validator.Validator,
	defaultPageSize int,
) RequestService {
	if defaultPageSize <= 0 {
		defaultPageSize = search.DefaultPageSize
	}
	return &requestService{
		requestRepo:     requestRepo,
		proposalRepo:    proposalRepo,
		providerRepo:    providerRepo,
		categoryService: categoryService,
		validator:       v,
		defaultPageSize: defaultPageSize,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// ==========================
// Create / read
// ==========================

func (s *requestService) CreateRequest(db *gorm.DB, clientID string, req *dto.CreateServiceRequest) (*dto.ServiceRequestResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	switch {
	case title == "":
		return nil, apperrors.FieldError("title", "This field is required")
	case description == "":
		return nil, apperrors.FieldError("description", "This field is required")
	case req.ScheduledDate.IsZero():
		return nil, apperrors.FieldError("scheduled_date", "This field is required")
	}

	scheduled := req.ScheduledDate.UTC()
	if scheduled.Before(s.now().Add(-scheduledDateGrace)) {
		return nil, apperrors.FieldError("scheduled_date", "Must not be in the past")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	category, err := s.categoryService.ResolveCategory(tx, req.CategoryID, req.Category)
	if err != nil {
		return nil, err
	}

	var target *string
	if req.TargetProviderID != nil && *req.TargetProviderID != "" {
		provider, err := s.providerRepo.FindByID(tx, *req.TargetProviderID)
		if err != nil {
			return nil, handleRepoError(err)
		}
		if provider.ProfileID == clientID {
			return nil, apperrors.FieldError("target_provider_id", "You cannot request your own services")
		}
		target = &provider.ID
	}
	if !isPublic && target == nil {
		return nil, apperrors.FieldError("target_provider_id", "Required for private requests")
	}

	request := &models.ServiceRequest{
		ClientID:         clientID,
		Title:            title,
		Description:      description,
		CategoryID:       category.ID,
		Status:           models.RequestStatusPending,
		IsPublic:         isPublic,
		TargetProviderID: target,
		ScheduledDate:    scheduled,
		City:             strings.TrimSpace(validator.SanitizeTextInput(req.City, 80)),
		State:            strings.TrimSpace(validator.SanitizeTextInput(req.State, 40)),
		Address:          strings.TrimSpace(req.Address),
		Budget:           req.Budget,
	}
	if err := s.requestRepo.Create(tx, request); err != nil {
		return nil, apperrors.InternalError(err)
	}

	created, err := s.requestRepo.FindByID(tx, request.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.LifecycleLog("request", created.ID, nil, created.Status)
	resp := dto.NewServiceRequestResponse(created)
	return &resp, nil
}

// GetRequest скрывает приватную заявку от всех, кроме клиента и адресата
func (s *requestService) GetRequest(db *gorm.DB, requestID, viewerID string) (*dto.ServiceRequestResponse, error) {
	request, err := s.requestRepo.FindByID(db, requestID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if !request.IsPublic && request.ClientID != viewerID {
		visible := false
		if viewerID != "" {
			provider, err := s.providerRepo.FindByProfileID(db, viewerID)
			if err != nil && !errors.Is(err, repositories.ErrProviderNotFound) {
				return nil, apperrors.InternalError(err)
			}
			if provider != nil {
				visible = sameID(request.TargetProviderID, provider.ID) || sameID(request.AssignedProviderID, provider.ID)
			}
		}
		if !visible {
			return nil, apperrors.ErrRequestNotFound
		}
	}

	resp := dto.NewServiceRequestResponse(request)
	return &resp, nil
}

type openBoardParams struct {
	ViewerProviderID string
	Criteria         search.RequestCriteria
}

// ListOpen - доска pending-заявок для исполнителей
func (s *requestService) ListOpen(ctx context.Context, db *gorm.DB, viewerID string, req *dto.RequestSearchRequest) (*dto.ListResponse[dto.ServiceRequestResponse], error) {
	params := openBoardParams{
		Criteria: search.RequestCriteria{
			Query:    req.Query,
			Category: req.Category,
			City:     req.City,
			Sort:     req.Sort,
		},
	}
	if viewerID != "" {
		provider, err := s.providerRepo.FindByProfileID(db.WithContext(ctx), viewerID)
		switch {
		case err == nil:
			params.ViewerProviderID = provider.ID
		case !errors.Is(err, repositories.ErrProviderNotFound):
			return nil, apperrors.InternalError(err)
		}
	}

	res, err := loadList(ctx, "request", params, func(ctx context.Context, p openBoardParams) ([]dto.ServiceRequestResponse, error) {
		requests, err := s.requestRepo.ListOpen(db.WithContext(ctx), repositories.RequestFilter{ViewerProviderID: p.ViewerProviderID})
		if err != nil {
			return nil, err
		}
		return search.Requests(requestCards(requests), p.Criteria), nil
	})

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	return paginate(res, req.Page, pageSize), err
}

type ownerParams struct {
	ClientID string
	Status   models.RequestStatus
}

func (s *requestService) ListMine(ctx context.Context, db *gorm.DB, clientID, status string) (*dto.ListResponse[dto.ServiceRequestResponse], error) {
	if err := s.validator.Var("status", status, "omitempty,request-status"); err != nil {
		return nil, validationError(err)
	}

	params := ownerParams{ClientID: clientID, Status: models.RequestStatus(status)}
	res, err := loadList(ctx, "request", params, func(ctx context.Context, p ownerParams) ([]dto.ServiceRequestResponse, error) {
		requests, err := s.requestRepo.ListByClient(db.WithContext(ctx), p.ClientID, p.Status)
		if err != nil {
			return nil, err
		}
		return requestCards(requests), nil
	})
	return dto.NewListResponse(res, nil), err
}

// ==========================
// Transitions
// ==========================

// CompleteRequest: in_progress -> completed, счетчик исполнителя растет в той же транзакции
func (s *requestService) CompleteRequest(db *gorm.DB, clientID, requestID string) (*dto.ServiceRequestResponse, error) {
	return s.transition(db, clientID, requestID, models.RequestStatusInProgress, models.RequestStatusCompleted,
		func(tx *gorm.DB, request *models.ServiceRequest, now time.Time) (map[string]interface{}, func() error) {
			after := func() error {
				if request.AssignedProviderID == nil {
					return apperrors.ErrInvalidRequestState
				}
				return s.providerRepo.IncrementServicesCompleted(tx, *request.AssignedProviderID)
			}
			return map[string]interface{}{"completed_at": now}, after
		})
}

// CancelRequest: pending -> cancelled, ожидающие предложения отклоняются
func (s *requestService) CancelRequest(db *gorm.DB, clientID, requestID string) (*dto.ServiceRequestResponse, error) {
	return s.transition(db, clientID, requestID, models.RequestStatusPending, models.RequestStatusCancelled,
		func(tx *gorm.DB, request *models.ServiceRequest, now time.Time) (map[string]interface{}, func() error) {
			after := func() error {
				rejected, err := s.proposalRepo.RejectPendingByRequest(tx, request.ID)
				if err == nil && rejected > 0 {
					logger.Info("Pending proposals rejected on cancel", "request_id", request.ID, "count", rejected)
				}
				return err
			}
			return map[string]interface{}{"cancelled_at": now}, after
		})
}

type transitionHook func(tx *gorm.DB, request *models.ServiceRequest, now time.Time) (map[string]interface{}, func() error)

// transition - общий путь смены статуса владельцем: проверка ребра,
// условный UPDATE по текущему статусу, побочные изменения, коммит.
func (s *requestService) transition(db *gorm.DB, clientID, requestID string, from, to models.RequestStatus, hook transitionHook) (*dto.ServiceRequestResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	request, err := s.requestRepo.FindByID(tx, requestID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if request.ClientID != clientID {
		return nil, apperrors.ErrNotRequestOwner
	}
	if request.Status != from || !request.Status.CanTransitionTo(to) {
		return nil, invalidRequestState(request.Status, to)
	}

	extra, after := hook(tx, request, s.now())
	rows, err := s.requestRepo.UpdateStatus(tx, request.ID, from, to, extra)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, invalidRequestState(request.Status, to)
	}
	if after != nil {
		if err := after(); err != nil {
			return nil, handleRepoError(err)
		}
	}

	updated, err := s.requestRepo.FindByID(tx, request.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.LifecycleLog("request", request.ID, from, to)
	resp := dto.NewServiceRequestResponse(updated)
	return &resp, nil
}

func invalidRequestState(current, target models.RequestStatus) error {
	return apperrors.ErrInvalidRequestState.WithDetails(map[string]string{
		"status": string(current),
		"target": string(target),
	})
}

func requestCards(requests []models.ServiceRequest) []dto.ServiceRequestResponse {
	out := make([]dto.ServiceRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewServiceRequestResponse(&requests[i]))
	}
	return out
}

func sameID(ptr *string, id string) bool {
	return ptr != nil && *ptr == id
}
