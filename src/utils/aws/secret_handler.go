package aws_handler

import (
	"context"
	"fmt"

	"tracker/src/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

type SecretManager struct {
	svc secretsmanageriface.SecretsManagerAPI
}

func NewSecretManager(svc secretsmanageriface.SecretsManagerAPI) *SecretManager {
	return &SecretManager{svc: svc}
}

// NewSecretManagerFromConfig opens a session for the aws section. Endpoint
// is only set for local stacks such as localstack.
func NewSecretManagerFromConfig(cfg config.AWSConfig) (*SecretManager, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}
	return NewSecretManager(secretsmanager.New(sess)), nil
}

func (s *SecretManager) GetSecretValue(ctx context.Context, secretID string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	}

	result, err := s.svc.GetSecretValueWithContext(ctx, input)
	if err != nil {
		return "", err
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretID)
	}
	return *result.SecretString, nil
}

// ResolvePassword replaces the SQL password with the secret named by
// PasswordSecretID. Without a secret id the config is left as is.
func (s *SecretManager) ResolvePassword(ctx context.Context, cfg *config.SQLConfig) error {
	if cfg.PasswordSecretID == "" {
		return nil
	}
	password, err := s.GetSecretValue(ctx, cfg.PasswordSecretID)
	if err != nil {
		return fmt.Errorf("failed to read secret %s: %w", cfg.PasswordSecretID, err)
	}
	cfg.Password = password
	return nil
}
