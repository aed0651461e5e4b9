package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/pressroom/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingLogger struct {
	logging.Logger
	msgs []string
	args [][]any
}

func (r *recordingLogger) Debug(_ context.Context, msg string, args ...any) {
	r.msgs = append(r.msgs, msg)
	r.args = append(r.args, args)
}

func TestLoggingInterceptor_PassesThroughAndLogs(t *testing.T) {
	log := &recordingLogger{Logger: logging.Nop()}
	s := &GRPCServer{logger: log}

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if len(log.msgs) != 1 || log.msgs[0] != "grpc request" {
		t.Fatalf("unexpected log: %v", log.msgs)
	}
	if log.args[0][1] != info.FullMethod || log.args[0][3] != codes.OK.String() {
		t.Fatalf("unexpected log args: %v", log.args[0])
	}
}

func TestLoggingInterceptor_ReturnsHandlerError(t *testing.T) {
	log := &recordingLogger{Logger: logging.Nop()}
	s := &GRPCServer{logger: log}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.Unavailable, "down")
	}

	_, err := s.loggingInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"}, h)
	if status.Code(err) != codes.Unavailable {
		t.Fatalf("expected Unavailable, got %v", err)
	}
	if log.args[0][3] != codes.Unavailable.String() {
		t.Fatalf("unexpected code logged: %v", log.args[0])
	}
}
