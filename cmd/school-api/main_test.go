package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-api/internal/models"
	"github.com/noah-isme/school-admin-api/internal/service"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommandIssuesVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "school-admin-api")

	out, err := execute(t, "token", "--subject", "u-1", "--role", "secretary")
	require.NoError(t, err)

	tokens := service.NewTokenService(service.TokenConfig{Secret: "cli-secret", Issuer: "school-admin-api", Expiry: time.Hour})
	claims, err := tokens.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, models.RoleSecretary, claims.Role)
}

func TestTokenCommandRejectsUnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	_, err := execute(t, "token", "--subject", "u-1", "--role", "janitor")
	assert.Error(t, err)
}

func TestMigrateCommandUpAndDown(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "school.db"))

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "applied migration 001")

	out, err = execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema is up to date")

	out, err = execute(t, "migrate", "--down")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back migration 001")
	migrateDown = false
}
