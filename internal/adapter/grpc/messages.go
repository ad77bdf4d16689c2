package grpc

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-sim/internal/domain"
	"github.com/simaogato/wealthflow-sim/internal/usecase/comparison"
)

// scenarioIDRequest is the body of RunScenario, GetHistory and GetComparison
type scenarioIDRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type historyRecord struct {
	ID         string                     `json:"id"`
	Strategy   domain.Strategy            `json:"strategy"`
	Investment string                     `json:"investment"`
	Year       int                        `json:"year"`
	Value      decimal.Decimal            `json:"value"`
	Extra      map[string]decimal.Decimal `json:"extra,omitempty"`
}

type historyResponse struct {
	ScenarioID string          `json:"scenario_id"`
	Records    []historyRecord `json:"records"`
}

type comparisonResponse struct {
	ScenarioID     string          `json:"scenario_id"`
	Year           int             `json:"year"`
	FundValue      decimal.Decimal `json:"fund_value"`
	PropertyValue  decimal.Decimal `json:"property_value"`
	PropertyEquity decimal.Decimal `json:"property_equity"`
	OutOfPocket    decimal.Decimal `json:"out_of_pocket"`
	Difference     decimal.Decimal `json:"difference"`
	Leader         domain.Strategy `json:"leader"`
}

type listScenariosResponse struct {
	Scenarios []*domain.Scenario `json:"scenarios"`
}

// decodeRequest converts a Struct into a Go value through its JSON form.
// Decimal fields accept both JSON strings and numbers; strings keep full precision.
func decodeRequest(in *structpb.Struct, out any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// encodeResponse converts a Go value into a Struct through its JSON form.
// Decimals travel as strings.
func encodeResponse(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func parseScenarioID(in *structpb.Struct) (uuid.UUID, error) {
	var req scenarioIDRequest
	if err := decodeRequest(in, &req); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(req.ScenarioID)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid scenario_id format: %v", err)
	}
	return id, nil
}

func toHistoryResponse(scenarioID uuid.UUID, records []*domain.SnapshotRecord) historyResponse {
	out := historyResponse{
		ScenarioID: scenarioID.String(),
		Records:    make([]historyRecord, 0, len(records)),
	}
	for _, rec := range records {
		out.Records = append(out.Records, historyRecord{
			ID:         rec.ID.String(),
			Strategy:   rec.Strategy,
			Investment: rec.Investment,
			Year:       rec.Year,
			Value:      rec.Value,
			Extra:      rec.Extra,
		})
	}
	return out
}

func toComparisonResponse(c *comparison.ComparisonResult) comparisonResponse {
	return comparisonResponse{
		ScenarioID:     c.ScenarioID.String(),
		Year:           c.Year,
		FundValue:      c.FundValue,
		PropertyValue:  c.PropertyValue,
		PropertyEquity: c.PropertyEquity,
		OutOfPocket:    c.OutOfPocket,
		Difference:     c.Difference,
		Leader:         c.Leader,
	}
}

// DecodeResponse unpacks a response Struct into v, for clients
func DecodeResponse(in *structpb.Struct, v any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// EncodeRequest packs v into a request Struct, for clients
func EncodeRequest(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return structpb.NewStruct(fields)
}
