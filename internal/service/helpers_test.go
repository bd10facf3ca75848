package service

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-admin-api/pkg/errors"
)

var (
	uniqueViolation     = &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	foreignKeyViolation = &pq.Error{Code: "23503", Message: "violates foreign key constraint"}
)

func assertAppError(t *testing.T, err error, target *appErrors.Error, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, target.Code, appErr.Code)
	assert.Equal(t, target.Status, appErr.Status)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}
