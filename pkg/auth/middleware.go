package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims returns a new context with the given Claims attached.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts Claims from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// UnaryAuthInterceptor authenticates every call except skipMethods and,
// when methodRoles lists a method, requires one of the given roles.
func UnaryAuthInterceptor(jwtService *JWTService, skipMethods []string, methodRoles map[string][]string) grpc.UnaryServerInterceptor {
	skipSet := make(map[string]struct{}, len(skipMethods))
	for _, m := range skipMethods {
		skipSet[m] = struct{}{}
	}

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, skip := skipSet[info.FullMethod]; skip {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}
		authHeader := md.Get("authorization")
		if len(authHeader) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader[0], "Bearer "))
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
		}

		if roles, guarded := methodRoles[info.FullMethod]; guarded && !hasAnyRole(claims, roles) {
			return nil, status.Errorf(codes.PermissionDenied, "required role(s): %v", roles)
		}

		return handler(ContextWithClaims(ctx, claims), req)
	}
}

func hasAnyRole(claims *Claims, roles []string) bool {
	for _, r := range roles {
		if claims.HasRole(r) {
			return true
		}
	}
	return false
}
