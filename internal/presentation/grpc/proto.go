package grpc

// proto.go hand-writes the service descriptor for
// underwriting.v1.UnderwritingService. Messages are the application DTOs,
// carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/dto"
)

const serviceName = "underwriting.v1.UnderwritingService"

// Full method names, used for auth rules.
const (
	MethodClassifyApplicant      = "/" + serviceName + "/ClassifyApplicant"
	MethodCreateDecision         = "/" + serviceName + "/CreateDecision"
	MethodGetDecision            = "/" + serviceName + "/GetDecision"
	MethodListDecisions          = "/" + serviceName + "/ListDecisions"
	MethodUpdateDecision         = "/" + serviceName + "/UpdateDecision"
	MethodMigrateLegacyDecisions = "/" + serviceName + "/MigrateLegacyDecisions"
)

// UnderwritingServiceServer is the server API for UnderwritingService.
type UnderwritingServiceServer interface {
	ClassifyApplicant(context.Context, *dto.ClassifyApplicantRequest) (*dto.FundingProfileResponse, error)
	CreateDecision(context.Context, *dto.CreateDecisionRequest) (*dto.DecisionResponse, error)
	GetDecision(context.Context, *dto.GetDecisionRequest) (*dto.DecisionResponse, error)
	ListDecisions(context.Context, *dto.ListDecisionsRequest) (*dto.ListDecisionsResponse, error)
	UpdateDecision(context.Context, *dto.UpdateDecisionRequest) (*dto.DecisionResponse, error)
	MigrateLegacyDecisions(context.Context, *dto.MigrateLegacyRequest) (*dto.MigrateLegacyResponse, error)
	mustEmbedUnimplementedUnderwritingServiceServer()
}

// UnimplementedUnderwritingServiceServer provides forward-compatible default implementations.
type UnimplementedUnderwritingServiceServer struct{}

func (UnimplementedUnderwritingServiceServer) ClassifyApplicant(context.Context, *dto.ClassifyApplicantRequest) (*dto.FundingProfileResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClassifyApplicant not implemented")
}
func (UnimplementedUnderwritingServiceServer) CreateDecision(context.Context, *dto.CreateDecisionRequest) (*dto.DecisionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateDecision not implemented")
}
func (UnimplementedUnderwritingServiceServer) GetDecision(context.Context, *dto.GetDecisionRequest) (*dto.DecisionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetDecision not implemented")
}
func (UnimplementedUnderwritingServiceServer) ListDecisions(context.Context, *dto.ListDecisionsRequest) (*dto.ListDecisionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListDecisions not implemented")
}
func (UnimplementedUnderwritingServiceServer) UpdateDecision(context.Context, *dto.UpdateDecisionRequest) (*dto.DecisionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateDecision not implemented")
}
func (UnimplementedUnderwritingServiceServer) MigrateLegacyDecisions(context.Context, *dto.MigrateLegacyRequest) (*dto.MigrateLegacyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MigrateLegacyDecisions not implemented")
}
func (UnimplementedUnderwritingServiceServer) mustEmbedUnimplementedUnderwritingServiceServer() {}

// RegisterUnderwritingServiceServer registers srv with the gRPC server.
func RegisterUnderwritingServiceServer(s grpclib.ServiceRegistrar, srv UnderwritingServiceServer) {
	s.RegisterService(&underwritingServiceDesc, srv)
}

var underwritingServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*UnderwritingServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ClassifyApplicant", Handler: unaryHandler(MethodClassifyApplicant, UnderwritingServiceServer.ClassifyApplicant)},
		{MethodName: "CreateDecision", Handler: unaryHandler(MethodCreateDecision, UnderwritingServiceServer.CreateDecision)},
		{MethodName: "GetDecision", Handler: unaryHandler(MethodGetDecision, UnderwritingServiceServer.GetDecision)},
		{MethodName: "ListDecisions", Handler: unaryHandler(MethodListDecisions, UnderwritingServiceServer.ListDecisions)},
		{MethodName: "UpdateDecision", Handler: unaryHandler(MethodUpdateDecision, UnderwritingServiceServer.UpdateDecision)},
		{MethodName: "MigrateLegacyDecisions", Handler: unaryHandler(MethodMigrateLegacyDecisions, UnderwritingServiceServer.MigrateLegacyDecisions)},
	},
	Streams: []grpclib.StreamDesc{},
}

// unaryHandler adapts a typed server method to the descriptor's handler
// signature, running it through the interceptor chain when one is set.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(UnderwritingServiceServer, context.Context, *Req) (*Resp, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UnderwritingServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(UnderwritingServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
