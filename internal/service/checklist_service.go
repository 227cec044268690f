package service

import (
	"context"
	"encoding/json"
	"fmt"

	"clinical-eval-be/internal/constant"
	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/pkg/apperror"
	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/evaluation/pipeline"
)

type IChecklistService interface {
	Assess(ctx context.Context, req *dto.AssessChecklistRequest) (*dto.AssessChecklistResponse, error)
	Catalog(ctx context.Context) (*dto.ListCatalogResponse, error)
}

type checklistService struct {
	orchestrator     *pipeline.Orchestrator
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewChecklistService(
	orchestrator *pipeline.Orchestrator,
	publisherService IPublisherService,
	log logger.ILogger,
) IChecklistService {
	return &checklistService{
		orchestrator:     orchestrator,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *checklistService) Assess(ctx context.Context, req *dto.AssessChecklistRequest) (*dto.AssessChecklistResponse, error) {
	categories, err := selectCategories(req.Categories)
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator.RunChecklist(ctx, req.SessionId, categories)
	if err != nil {
		return nil, mapSessionErr(err)
	}

	s.publishCompleted(ctx, req.SessionId, result)

	checklist := result.Checklist
	return &dto.AssessChecklistResponse{
		SessionId:       req.SessionId,
		Items:           checklist.Items,
		Categories:      checklist.Categories,
		TotalItems:      checklist.TotalItems,
		ItemsFound:      checklist.ItemsFound,
		CompletionPct:   checklist.CompletionPct,
		MissingItems:    checklist.MissingItems,
		Recommendations: checklist.Recommendations,
		CompletedAt:     result.CompletedAt,
	}, nil
}

func (s *checklistService) Catalog(_ context.Context) (*dto.ListCatalogResponse, error) {
	resp := &dto.ListCatalogResponse{}
	for _, cat := range constant.ChecklistCatalog {
		names := make([]string, 0, len(cat.Items))
		for _, item := range cat.Items {
			names = append(names, item.Name)
		}
		resp.Categories = append(resp.Categories, dto.CatalogCategory{
			Name:  cat.Name,
			Items: names,
		})
	}
	return resp, nil
}

// selectCategories resolves the requested category names against the built-in
// catalog. An empty request means the full catalog.
func selectCategories(names []string) ([]pipeline.CategoryRequest, error) {
	if len(names) == 0 {
		requests := make([]pipeline.CategoryRequest, 0, len(constant.ChecklistCatalog))
		for _, cat := range constant.ChecklistCatalog {
			requests = append(requests, pipeline.CategoryRequest{
				Category: cat.Name,
				Items:    cat.Items,
			})
		}
		return requests, nil
	}

	requests := make([]pipeline.CategoryRequest, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		cat := constant.CatalogCategoryByName(name)
		if cat == nil {
			return nil, apperror.NewValidation(fmt.Sprintf("unknown checklist category: %s", name))
		}
		requests = append(requests, pipeline.CategoryRequest{
			Category: cat.Name,
			Items:    cat.Items,
		})
	}
	return requests, nil
}

func (s *checklistService) publishCompleted(ctx context.Context, sessionID string, result *evaluation.Result) {
	msgPayload := dto.EvaluationCompletedMessage{
		SessionId:     sessionID,
		Kind:          string(result.Kind),
		CompletionPct: result.Checklist.CompletionPct,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		s.logger.Warn("checklist", "failed to marshal completion event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.logger.Warn("checklist", "failed to publish completion event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}
