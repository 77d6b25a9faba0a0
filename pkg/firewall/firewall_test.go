package firewall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmptyInput(t *testing.T) {
	_, err := Validate("   ", 100)
	require.Error(t, err)
	assert.Equal(t, CodeEmptySQL, err.(*RejectionError).Code)
}

func TestValidate_ParseError(t *testing.T) {
	_, err := Validate("SELEKT * FRM orders", 100)
	require.Error(t, err)
	assert.Equal(t, CodeParseError, err.(*RejectionError).Code)
}

func TestValidate_BlockedStatement(t *testing.T) {
	_, err := Validate("DELETE FROM orders", 100)
	require.Error(t, err)
	assert.Equal(t, CodeBlockedStatement, err.(*RejectionError).Code)
}

func TestValidate_NonSelect(t *testing.T) {
	_, err := Validate("SHOW search_path", 100)
	require.Error(t, err)
	assert.Equal(t, CodeNonSelect, err.(*RejectionError).Code)
}

func TestValidate_BlockedSubquery(t *testing.T) {
	_, err := Validate("WITH x AS (DELETE FROM orders RETURNING id) SELECT * FROM x", 100)
	require.Error(t, err)
	assert.Equal(t, CodeBlockedSubquery, err.(*RejectionError).Code)
}

func TestValidate_BlockedFunction(t *testing.T) {
	_, err := Validate("SELECT pg_sleep(10)", 100)
	require.Error(t, err)
	assert.Equal(t, CodeBlockedFunction, err.(*RejectionError).Code)
}

func TestValidate_AppendsLimitWhenAbsent(t *testing.T) {
	out, err := Validate("SELECT * FROM orders", 50)
	require.NoError(t, err)
	assert.Contains(t, out, "LIMIT 50")
}

func TestValidate_LowersExcessiveLiteralLimit(t *testing.T) {
	out, err := Validate("SELECT * FROM orders LIMIT 100000", 50)
	require.NoError(t, err)
	assert.Contains(t, out, "LIMIT 50")
	assert.NotContains(t, out, "LIMIT 100000")
}

func TestValidate_KeepsLimitBelowCap(t *testing.T) {
	out, err := Validate("SELECT * FROM orders LIMIT 10", 50)
	require.NoError(t, err)
	assert.Contains(t, out, "LIMIT 10")
}

func TestValidate_MultipleSelectStatementsAllowed(t *testing.T) {
	out, err := Validate("SELECT id FROM orders; SELECT id FROM users", 50)
	require.NoError(t, err)
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "users")
}

func TestValidate_AnyMutatingStatementInListRejectsWhole(t *testing.T) {
	_, err := Validate("SELECT id FROM orders; DELETE FROM users", 50)
	require.Error(t, err)
	assert.Equal(t, CodeBlockedStatement, err.(*RejectionError).Code)
}
