package aws_handler_test

import (
	"errors"
	"testing"

	aws_handler "portfolio-tracker/src/utils/aws"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	values map[string]*string
}

func (f *fakeSecretsManager) GetSecretValue(in *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error) {
	value, ok := f.values[aws.StringValue(in.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: value}, nil
}

func TestSecretManager(t *testing.T) {
	sm := aws_handler.NewSecretManager(&fakeSecretsManager{values: map[string]*string{
		"prod/tiingo": aws.String("secret-key"),
		"prod/binary": nil,
	}})

	value, err := sm.GetSecretValue("prod/tiingo")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", value)

	_, err = sm.GetSecretValue("prod/binary")
	assert.Error(t, err)

	_, err = sm.GetSecretValue("prod/missing")
	assert.Error(t, err)
}
