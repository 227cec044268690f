package service

import (
	"context"
	"encoding/json"

	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/pkg/evaluation"
	"clinical-eval-be/pkg/evaluation/pipeline"
)

type IEligibilityService interface {
	Evaluate(ctx context.Context, req *dto.EvaluateEligibilityRequest) (*dto.EvaluateEligibilityResponse, error)
}

type eligibilityService struct {
	orchestrator     *pipeline.Orchestrator
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewEligibilityService(
	orchestrator *pipeline.Orchestrator,
	publisherService IPublisherService,
	log logger.ILogger,
) IEligibilityService {
	return &eligibilityService{
		orchestrator:     orchestrator,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *eligibilityService) Evaluate(ctx context.Context, req *dto.EvaluateEligibilityRequest) (*dto.EvaluateEligibilityResponse, error) {
	criteria := make([]evaluation.Criterion, 0, len(req.Criteria))
	for _, c := range req.Criteria {
		criteria = append(criteria, evaluation.Criterion{
			Text:      c.Text,
			Type:      evaluation.CriterionType(c.Type),
			Rationale: c.Rationale,
		})
	}

	result, err := s.orchestrator.RunEligibility(ctx, req.SessionId, criteria)
	if err != nil {
		return nil, mapSessionErr(err)
	}

	s.publishCompleted(ctx, req.SessionId, result)

	return &dto.EvaluateEligibilityResponse{
		SessionId:   req.SessionId,
		Verdict:     result.Eligibility.Verdict,
		Results:     result.Eligibility.Results,
		CompletedAt: result.CompletedAt,
	}, nil
}

// publishCompleted is best effort. A dropped notification never fails the
// evaluation it describes.
func (s *eligibilityService) publishCompleted(ctx context.Context, sessionID string, result *evaluation.Result) {
	msgPayload := dto.EvaluationCompletedMessage{
		SessionId: sessionID,
		Kind:      string(result.Kind),
		Verdict:   string(result.Eligibility.Verdict),
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		s.logger.Warn("eligibility", "failed to marshal completion event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.logger.Warn("eligibility", "failed to publish completion event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}
