package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/colsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("column", "user_id")
		assert.Equal(t, "column user_id not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("column", "test")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestSchemaNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := pkgerrors.NewSchemaNotFoundError("main.sales.orders", nil)
		assert.Equal(t, "schema for table main.sales.orders not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := pkgerrors.NewSchemaNotFoundError("main.sales.orders", cause)
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
	})
}

func TestDuplicateColumnError(t *testing.T) {
	err := pkgerrors.NewDuplicateColumnError("target", "email")
	assert.Equal(t, `duplicate column name "email" in target snapshot`, err.Error())
	assert.True(t, pkgerrors.IsDuplicate(err))
	assert.True(t, pkgerrors.IsValidationError(err))

	var dup *pkgerrors.DuplicateColumnError
	require.True(t, errors.As(fmt.Errorf("match: %w", err), &dup))
	assert.Equal(t, "target", dup.Snapshot)
	assert.Equal(t, "email", dup.Column)
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("max_distance", -1, "must not be negative")
		assert.Equal(t, "validation failed for field max_distance: must not be negative", err.Error())
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestWriteError(t *testing.T) {
	cause := errors.New("permission denied")
	err := pkgerrors.NewWriteError("main.crm.users", "email", cause)
	assert.Equal(t, "failed to update description of main.crm.users.email: permission denied", err.Error())
	assert.True(t, pkgerrors.IsWriteFailure(err))
	assert.Equal(t, cause, err.Unwrap())

	assert.NoError(t, pkgerrors.WrapWrite("t", "c", nil))
	assert.True(t, pkgerrors.IsWriteFailure(pkgerrors.WrapWrite("t", "c", cause)))
}

func TestStateError(t *testing.T) {
	err := pkgerrors.NewStateError("applied", "review")
	assert.Equal(t, "cannot review: session is applied", err.Error())
	assert.True(t, pkgerrors.IsInvalidState(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("catalog", "dsn cannot be empty", nil)
	assert.Contains(t, err.Error(), "catalog")
	assert.Contains(t, err.Error(), "dsn cannot be empty")
	assert.Nil(t, err.Unwrap())
}

func TestIOAndParseErrors(t *testing.T) {
	t.Run("io with path", func(t *testing.T) {
		err := pkgerrors.NewIOError("read", "/tmp/decisions.yaml", errors.New("no such file"))
		assert.Equal(t, "IO error during read of /tmp/decisions.yaml: no such file", err.Error())
	})

	t.Run("io without path", func(t *testing.T) {
		err := pkgerrors.NewIOError("query", "", errors.New("timeout"))
		assert.Equal(t, "IO error during query: timeout", err.Error())
	})

	t.Run("parse with file", func(t *testing.T) {
		err := pkgerrors.WrapParse("yaml", "decisions.yaml", errors.New("bad indent"))
		assert.Equal(t, "parse error in yaml file decisions.yaml: bad indent", err.Error())
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
		assert.NoError(t, pkgerrors.WrapParse("yaml", "x", nil))
	})
}
