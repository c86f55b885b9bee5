package governance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyAllowsByDefault(t *testing.T) {
	e := NewDefaultPolicyEngine()
	res, err := e.Evaluate(context.Background(), Request{Action: "list_loans", Arguments: "{}"})
	require.NoError(t, err)
	assert.Equal(t, EffectAllow, res.Effect)
}

func TestPolicyDeniesAction(t *testing.T) {
	e := NewDefaultPolicyEngine()
	e.DenyAction("delete_note")

	res, err := e.Evaluate(context.Background(), Request{Action: "delete_note", Arguments: "{}"})
	require.NoError(t, err)
	assert.Equal(t, EffectDeny, res.Effect)
	assert.NotEmpty(t, res.Reason)
}

func TestPolicyDeniesArgumentPattern(t *testing.T) {
	e := NewDefaultPolicyEngine()
	require.NoError(t, e.DenyArguments(`rm\s+-rf`))

	res, err := e.Evaluate(context.Background(), Request{
		Action:    "print_text",
		Arguments: `{"text":"rm -rf /"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, EffectDeny, res.Effect)

	res, err = e.Evaluate(context.Background(), Request{
		Action:    "print_text",
		Arguments: `{"text":"groceries"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, EffectAllow, res.Effect)
}

func TestPolicyRejectsBadPattern(t *testing.T) {
	e := NewDefaultPolicyEngine()
	assert.Error(t, e.DenyArguments(`([`))
}
