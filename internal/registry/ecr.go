// Package registry obtains short-lived container registry credentials from cloud providers.
package registry

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// ErrAuthToken indicates a malformed or absent registry authorization response.
var ErrAuthToken = errors.New("malformed registry authorization token")

// Login is a decoded registry credential: who to log in as, and where.
// Server is empty for the engine's default registry.
type Login struct {
	Username string
	Password string
	Server   string
}

// TokenProvider yields a registry login from an authorization endpoint.
type TokenProvider interface {
	Login(ctx context.Context) (Login, error)
}

// ecrAPI is the subset of the ECR client used to fetch authorization tokens.
type ecrAPI interface {
	GetAuthorizationToken(ctx context.Context, params *ecr.GetAuthorizationTokenInput, optFns ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error)
}

// ECR resolves registry logins through the AWS ECR authorization endpoint.
type ECR struct {
	api    ecrAPI
	logger *slog.Logger
}

// NewECR constructs an ECR token provider using the ambient AWS configuration
// (environment, shared config, instance role).
func NewECR(ctx context.Context, logger *slog.Logger) (*ECR, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS configuration: %w", err)
	}
	return &ECR{api: ecr.NewFromConfig(cfg), logger: logger}, nil
}

// Login fetches an authorization token and decodes the embedded basic-auth
// credential pair. The response shape is validated explicitly: authorization
// data must be present, the token must base64-decode to username:password,
// and the proxy endpoint must name a registry.
func (e *ECR) Login(ctx context.Context) (Login, error) {
	out, err := e.api.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return Login{}, fmt.Errorf("%w: %w", ErrAuthToken, err)
	}

	if len(out.AuthorizationData) == 0 {
		return Login{}, fmt.Errorf("%w: response carries no authorization data", ErrAuthToken)
	}
	data := out.AuthorizationData[0]

	token := aws.ToString(data.AuthorizationToken)
	if token == "" {
		return Login{}, fmt.Errorf("%w: authorization token is empty", ErrAuthToken)
	}

	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Login{}, fmt.Errorf("%w: decode authorization token: %w", ErrAuthToken, err)
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok || username == "" || password == "" {
		return Login{}, fmt.Errorf("%w: decoded token is not a username:password pair", ErrAuthToken)
	}

	server := aws.ToString(data.ProxyEndpoint)
	if server == "" {
		return Login{}, fmt.Errorf("%w: response carries no proxy endpoint", ErrAuthToken)
	}

	if e.logger != nil {
		e.logger.Debug("obtained registry authorization token",
			"registry", server,
			"user", username,
			"expires_at", aws.ToTime(data.ExpiresAt))
	}

	return Login{Username: username, Password: password, Server: server}, nil
}
