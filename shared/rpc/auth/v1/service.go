// Package authv1 is the RPC contract of the authentication service: message
// types, the gRPC service descriptor, and a client. Messages travel as CBOR.
package authv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "linkshort.auth.v1.AuthService"

const (
	AuthService_Register_FullMethodName         = "/" + ServiceName + "/Register"
	AuthService_Login_FullMethodName            = "/" + ServiceName + "/Login"
	AuthService_Logout_FullMethodName           = "/" + ServiceName + "/Logout"
	AuthService_Verify_FullMethodName           = "/" + ServiceName + "/Verify"
	AuthService_SendVerification_FullMethodName = "/" + ServiceName + "/SendVerification"
	AuthService_IsValid_FullMethodName          = "/" + ServiceName + "/IsValid"
	AuthService_Refresh_FullMethodName          = "/" + ServiceName + "/Refresh"
	AuthService_ForgotPassword_FullMethodName   = "/" + ServiceName + "/ForgotPassword"
	AuthService_ChangePassword_FullMethodName   = "/" + ServiceName + "/ChangePassword"
)

// AuthServiceServer is implemented by the authentication service.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	Verify(context.Context, *VerifyRequest) (*VerifyResponse, error)
	SendVerification(context.Context, *SendVerificationRequest) (*SendVerificationResponse, error)
	IsValid(context.Context, *IsValidRequest) (*IsValidResponse, error)
	Refresh(context.Context, *RefreshRequest) (*AuthResponse, error)
	ForgotPassword(context.Context, *ForgotPasswordRequest) (*ForgotPasswordResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error)
}

// UnimplementedAuthServiceServer can be embedded to satisfy AuthServiceServer
// for methods a server does not provide.
type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedAuthServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedAuthServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}

func (UnimplementedAuthServiceServer) Verify(context.Context, *VerifyRequest) (*VerifyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Verify not implemented")
}

func (UnimplementedAuthServiceServer) SendVerification(
	context.Context,
	*SendVerificationRequest,
) (*SendVerificationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendVerification not implemented")
}

func (UnimplementedAuthServiceServer) IsValid(context.Context, *IsValidRequest) (*IsValidResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method IsValid not implemented")
}

func (UnimplementedAuthServiceServer) Refresh(context.Context, *RefreshRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}

func (UnimplementedAuthServiceServer) ForgotPassword(
	context.Context,
	*ForgotPasswordRequest,
) (*ForgotPasswordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ForgotPassword not implemented")
}

func (UnimplementedAuthServiceServer) ChangePassword(
	context.Context,
	*ChangePasswordRequest,
) (*ChangePasswordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ChangePassword not implemented")
}

// RegisterAuthServiceServer registers srv on a gRPC server.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// AuthService_ServiceDesc describes AuthService for grpc.Server.
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unaryHandler(AuthService_Register_FullMethodName, AuthServiceServer.Register),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(AuthService_Login_FullMethodName, AuthServiceServer.Login),
		},
		{
			MethodName: "Logout",
			Handler:    unaryHandler(AuthService_Logout_FullMethodName, AuthServiceServer.Logout),
		},
		{
			MethodName: "Verify",
			Handler:    unaryHandler(AuthService_Verify_FullMethodName, AuthServiceServer.Verify),
		},
		{
			MethodName: "SendVerification",
			Handler: unaryHandler(
				AuthService_SendVerification_FullMethodName,
				AuthServiceServer.SendVerification,
			),
		},
		{
			MethodName: "IsValid",
			Handler:    unaryHandler(AuthService_IsValid_FullMethodName, AuthServiceServer.IsValid),
		},
		{
			MethodName: "Refresh",
			Handler:    unaryHandler(AuthService_Refresh_FullMethodName, AuthServiceServer.Refresh),
		},
		{
			MethodName: "ForgotPassword",
			Handler:    unaryHandler(AuthService_ForgotPassword_FullMethodName, AuthServiceServer.ForgotPassword),
		},
		{
			MethodName: "ChangePassword",
			Handler:    unaryHandler(AuthService_ChangePassword_FullMethodName, AuthServiceServer.ChangePassword),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "linkshort/auth/v1",
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AuthServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	Verify(ctx context.Context, in *VerifyRequest, opts ...grpc.CallOption) (*VerifyResponse, error)
	SendVerification(
		ctx context.Context,
		in *SendVerificationRequest,
		opts ...grpc.CallOption,
	) (*SendVerificationResponse, error)
	IsValid(ctx context.Context, in *IsValidRequest, opts ...grpc.CallOption) (*IsValidResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthServiceClient returns a client that always uses the CBOR codec,
// regardless of the connection's default call options.
func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func (c *authServiceClient) Register(
	ctx context.Context,
	in *RegisterRequest,
	opts ...grpc.CallOption,
) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, AuthService_Register_FullMethodName, in, opts)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, AuthService_Login_FullMethodName, in, opts)
}

func (c *authServiceClient) Logout(
	ctx context.Context,
	in *LogoutRequest,
	opts ...grpc.CallOption,
) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, AuthService_Logout_FullMethodName, in, opts)
}

func (c *authServiceClient) Verify(
	ctx context.Context,
	in *VerifyRequest,
	opts ...grpc.CallOption,
) (*VerifyResponse, error) {
	return invoke[VerifyResponse](ctx, c.cc, AuthService_Verify_FullMethodName, in, opts)
}

func (c *authServiceClient) SendVerification(
	ctx context.Context,
	in *SendVerificationRequest,
	opts ...grpc.CallOption,
) (*SendVerificationResponse, error) {
	return invoke[SendVerificationResponse](ctx, c.cc, AuthService_SendVerification_FullMethodName, in, opts)
}

func (c *authServiceClient) IsValid(
	ctx context.Context,
	in *IsValidRequest,
	opts ...grpc.CallOption,
) (*IsValidResponse, error) {
	return invoke[IsValidResponse](ctx, c.cc, AuthService_IsValid_FullMethodName, in, opts)
}

func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
