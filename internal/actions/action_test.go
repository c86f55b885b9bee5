package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(name string) Action {
	return NewAction(name, "noop "+name, Object(map[string]any{}),
		func(ctx context.Context, input string) Result {
			return OK("ran %s", name)
		})
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r := NewRegistry(noop("b"), noop("a"), noop("c"))

	var names []string
	for _, a := range r.List() {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)

	require.NotNil(t, r.Get("a"))
	assert.Nil(t, r.Get("missing"))
}

func TestRegistryDropsDuplicates(t *testing.T) {
	r := NewRegistry(noop("a"), noop("a"))
	assert.Len(t, r.List(), 1)
}

func TestRegistryInvoke(t *testing.T) {
	r := NewRegistry(noop("ping"))

	res := r.Invoke(context.Background(), "ping", `{}`)
	assert.True(t, res.Success)
	assert.Equal(t, "ran ping", res.Message)

	res = r.Invoke(context.Background(), "pong", `{}`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown action")
}

func TestResultJSON(t *testing.T) {
	res := OKData("done", map[string]any{"count": 2})
	assert.JSONEq(t, `{"success":true,"message":"done","data":{"count":2}}`, res.JSON())

	res = Errorf("boom: %d", 7)
	assert.JSONEq(t, `{"success":false,"error":"boom: 7"}`, res.JSON())
}

func TestObjectDefaultsRequired(t *testing.T) {
	schema := Object(map[string]any{"x": map[string]any{"type": "string"}})
	assert.Equal(t, []string{}, schema["required"])

	schema = Object(map[string]any{"x": map[string]any{"type": "string"}}, "x")
	assert.Equal(t, []string{"x"}, schema["required"])
}

func TestChatIDContext(t *testing.T) {
	assert.Equal(t, "", ChatIDFrom(context.Background()))
	ctx := WithChatID(context.Background(), "chat-5")
	assert.Equal(t, "chat-5", ChatIDFrom(ctx))
}
