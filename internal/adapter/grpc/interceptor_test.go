package grpc

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"
	interceptor := AuthInterceptor(validToken)

	tests := []struct {
		name           string
		ctx            context.Context
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Valid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Invalid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "wrong-token"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name: "Bearer Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "Bearer "+validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Lowercase Bearer Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "bearer "+validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Bearer With Wrong Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "Bearer wrong-token"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name:           "Missing Token",
			ctx:            context.Background(),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name: "Missing Authorization Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("other-header", "value"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{
				FullMethod: "/test.Service/Method",
			}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

type recordedCall struct {
	method string
	code   uint32
}

type fakeRecorder struct {
	calls []recordedCall
}

func (f *fakeRecorder) RecordGRPCRequest(method string, code uint32, elapsed time.Duration) {
	f.calls = append(f.calls, recordedCall{method: method, code: code})
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		expectedLvl string
		expectedMsg string
		expected    codes.Code
	}{
		{
			name:        "Success",
			expectedLvl: "INFO",
			expectedMsg: "grpc request",
			expected:    codes.OK,
		},
		{
			name:        "Client Error",
			handlerErr:  status.Error(codes.InvalidArgument, "invalid years"),
			expectedLvl: "WARN",
			expectedMsg: "grpc request rejected",
			expected:    codes.InvalidArgument,
		},
		{
			name:        "Server Error",
			handlerErr:  status.Error(codes.Internal, "boom"),
			expectedLvl: "ERROR",
			expectedMsg: "grpc request failed",
			expected:    codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			recorder := &fakeRecorder{}
			interceptor := LoggingInterceptor(logger, recorder)

			info := &grpc.UnaryServerInfo{FullMethod: FullMethod(MethodRunProjection)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				if tt.handlerErr != nil {
					return nil, tt.handlerErr
				}
				return "success", nil
			}

			resp, err := interceptor(context.Background(), "test-request", info, handler)

			assert.Equal(t, tt.expected, status.Code(err))
			if tt.handlerErr == nil {
				assert.Equal(t, "success", resp)
			}

			assert.Contains(t, buf.String(), "level="+tt.expectedLvl)
			assert.Contains(t, buf.String(), tt.expectedMsg)
			assert.Contains(t, buf.String(), "/wealthsim.v1.ProjectionService/RunProjection")

			if assert.Len(t, recorder.calls, 1) {
				assert.Equal(t, FullMethod(MethodRunProjection), recorder.calls[0].method)
				assert.Equal(t, uint32(tt.expected), recorder.calls[0].code)
			}
		})
	}
}

func TestLoggingInterceptor_NilRecorder(t *testing.T) {
	interceptor := LoggingInterceptor(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "success", nil
	}

	resp, err := interceptor(context.Background(), "test-request", info, handler)
	assert.NoError(t, err)
	assert.Equal(t, "success", resp)
}
