package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/linkshort-api/shared/interceptor"
	authv1 "github.com/vasapolrittideah/linkshort-api/shared/rpc/auth/v1"
)

type authGRPCHandler struct {
	authv1.UnimplementedAuthServiceServer
	authUsecase     usecase.AuthUsecase
	identityUsecase usecase.IdentityUsecase
	logger          *zerolog.Logger
}

// NewAuthGRPCHandler returns the AuthService implementation.
func NewAuthGRPCHandler(
	authUsecase usecase.AuthUsecase,
	identityUsecase usecase.IdentityUsecase,
	logger *zerolog.Logger,
) authv1.AuthServiceServer {
	return &authGRPCHandler{
		authUsecase:     authUsecase,
		identityUsecase: identityUsecase,
		logger:          logger,
	}
}

func (h *authGRPCHandler) Register(ctx context.Context, req *authv1.RegisterRequest) (*authv1.AuthResponse, error) {
	switch {
	case req.Email == "":
		return nil, status.Errorf(codes.InvalidArgument, "email is required")
	case req.Username == "":
		return nil, status.Errorf(codes.InvalidArgument, "username is required")
	case req.Password == "":
		return nil, status.Errorf(codes.InvalidArgument, "password is required")
	}

	result, err := h.authUsecase.Register(ctx, usecase.RegisterParams{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		return nil, h.toStatus(err, "failed to register account")
	}

	return toAuthResponse(result), nil
}

func (h *authGRPCHandler) Login(ctx context.Context, req *authv1.LoginRequest) (*authv1.AuthResponse, error) {
	if req.Identifier == "" || req.Password == "" {
		return nil, status.Errorf(codes.InvalidArgument, "identifier and password are required")
	}

	result, err := h.authUsecase.Login(ctx, usecase.LoginParams{
		Identifier:   req.Identifier,
		Password:     req.Password,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return nil, h.toStatus(err, "failed to login")
	}

	return toAuthResponse(result), nil
}

func (h *authGRPCHandler) Logout(ctx context.Context, req *authv1.LogoutRequest) (*authv1.LogoutResponse, error) {
	if err := h.authUsecase.Logout(ctx, req.RefreshToken); err != nil {
		return nil, h.toStatus(err, "failed to logout")
	}

	return &authv1.LogoutResponse{}, nil
}

func (h *authGRPCHandler) Verify(ctx context.Context, req *authv1.VerifyRequest) (*authv1.VerifyResponse, error) {
	if req.VerificationToken == "" {
		return nil, status.Errorf(codes.InvalidArgument, "verification token is required")
	}

	if err := h.authUsecase.Verify(ctx, req.VerificationToken); err != nil {
		return nil, h.toStatus(err, "failed to verify account")
	}

	return &authv1.VerifyResponse{}, nil
}

func (h *authGRPCHandler) SendVerification(
	ctx context.Context,
	_ *authv1.SendVerificationRequest,
) (*authv1.SendVerificationResponse, error) {
	claims, ok := interceptor.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Errorf(codes.Unauthenticated, "invalid access token claims")
	}

	token, err := h.authUsecase.SendVerification(ctx, claims.AccountID)
	if err != nil {
		return nil, h.toStatus(err, "failed to send verification link")
	}

	return &authv1.SendVerificationResponse{AlreadyVerified: token == ""}, nil
}

func (h *authGRPCHandler) IsValid(ctx context.Context, req *authv1.IsValidRequest) (*authv1.IsValidResponse, error) {
	valid, err := h.identityUsecase.IsValid(ctx, req.UserID, req.Roles)
	if err != nil {
		return nil, h.toStatus(err, "failed to check identity")
	}

	return &authv1.IsValidResponse{IsValid: valid}, nil
}

func (h *authGRPCHandler) Refresh(ctx context.Context, req *authv1.RefreshRequest) (*authv1.AuthResponse, error) {
	result, err := h.authUsecase.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, h.toStatus(err, "failed to refresh tokens")
	}

	return toAuthResponse(result), nil
}

func (h *authGRPCHandler) ForgotPassword(
	ctx context.Context,
	req *authv1.ForgotPasswordRequest,
) (*authv1.ForgotPasswordResponse, error) {
	if err := h.authUsecase.ForgotPassword(ctx, req.Email); err != nil {
		return nil, h.toStatus(err, "failed to request password reset")
	}

	return &authv1.ForgotPasswordResponse{}, nil
}

func (h *authGRPCHandler) ChangePassword(
	ctx context.Context,
	req *authv1.ChangePasswordRequest,
) (*authv1.ChangePasswordResponse, error) {
	if err := h.authUsecase.ChangePassword(ctx, req.Token, req.NewPassword); err != nil {
		return nil, h.toStatus(err, "failed to change password")
	}

	return &authv1.ChangePasswordResponse{}, nil
}

// toStatus maps usecase error kinds to gRPC status codes. Unexpected errors
// are logged and hidden from the caller.
func (h *authGRPCHandler) toStatus(err error, msg string) error {
	switch {
	case errors.Is(err, usecase.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, usecase.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, usecase.ErrBadRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, usecase.ErrNotImplemented):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		h.logger.Error().Err(err).Msg(msg)
		return status.Errorf(codes.Internal, "something went wrong")
	}
}

func toAuthResponse(result *usecase.AuthResult) *authv1.AuthResponse {
	return &authv1.AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Email:        result.Email,
		Username:     result.Username,
		Firstname:    result.Firstname,
		Lastname:     result.Lastname,
	}
}
