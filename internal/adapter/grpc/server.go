package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-sim/internal/domain"
	"github.com/simaogato/wealthflow-sim/internal/usecase/comparison"
	"github.com/simaogato/wealthflow-sim/internal/usecase/projection"
)

// Server implements the ProjectionService gRPC server
type Server struct {
	ProjectionService *projection.ProjectionService
	ComparisonService *comparison.ComparisonService
}

var _ ProjectionServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	projectionService *projection.ProjectionService,
	comparisonService *comparison.ComparisonService,
) *Server {
	return &Server{
		ProjectionService: projectionService,
		ComparisonService: comparisonService,
	}
}

// RunProjection handles the RunProjection RPC.
// The request body is a scenario; the response is the full projection.
func (s *Server) RunProjection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var scenario domain.Scenario
	if err := decodeRequest(req, &scenario); err != nil {
		return nil, err
	}

	// Identity is assigned by the service
	scenario.ID = uuid.Nil
	scenario.CreatedAt = time.Time{}

	result, err := s.ProjectionService.RunProjection(ctx, &scenario)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(result)
}

// RunScenario handles the RunScenario RPC
func (s *Server) RunScenario(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	scenarioID, err := parseScenarioID(req)
	if err != nil {
		return nil, err
	}

	result, err := s.ProjectionService.RunScenario(ctx, scenarioID)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(result)
}

// GetHistory handles the GetHistory RPC
func (s *Server) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	scenarioID, err := parseScenarioID(req)
	if err != nil {
		return nil, err
	}

	records, err := s.ProjectionService.GetHistory(ctx, scenarioID)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(toHistoryResponse(scenarioID, records))
}

// GetComparison handles the GetComparison RPC
func (s *Server) GetComparison(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	scenarioID, err := parseScenarioID(req)
	if err != nil {
		return nil, err
	}

	result, err := s.ComparisonService.GetComparison(ctx, scenarioID)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(toComparisonResponse(result))
}

// ListScenarios handles the ListScenarios RPC
func (s *Server) ListScenarios(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	scenarios, err := s.ProjectionService.ScenarioRepo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return encodeResponse(listScenariosResponse{Scenarios: scenarios})
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if domain.IsValidationError(err) {
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	}

	if errors.Is(err, domain.ErrNotFound) {
		return status.Errorf(codes.NotFound, "%s", err.Error())
	}

	if errors.Is(err, domain.ErrAlreadyExists) {
		return status.Errorf(codes.AlreadyExists, "%s", err.Error())
	}

	if errors.Is(err, context.Canceled) {
		return status.Errorf(codes.Canceled, "%s", err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
