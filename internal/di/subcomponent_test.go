package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/inject/internal/errors"
)

func TestSubcomponent_PrivateScopeTier(t *testing.T) {
	requestScope := NewScope("Request")
	requestID := NewKey[string](Named("RequestID"))
	handler := NewKey[*box](Named("Handler"))

	requestComponent := NewSubcomponent("RequestComponent", func(c *Container, args ...any) *Container {
		return c.ProvideInstance(requestID, args[0].(string))
	}, requestScope)

	root := NewRoot().
		ProvideInstance(numberKey, 7).
		ProvideScoped(handler, requestScope, []any{requestID, numberKey}, Call(func(id string, n int) *box {
			return &box{A: n, B: id}
		}))

	r1, err := root.Build(requestComponent, "r1")
	require.NoError(t, err)
	r2, err := root.Build(requestComponent, "r2")
	require.NoError(t, err)

	assert.Same(t, root, r1.Parent())
	assert.True(t, r1.Owns(requestScope))

	h1 := MustGet(r1, handler)
	assert.Equal(t, &box{A: 7, B: "r1"}, h1)
	assert.Same(t, h1, MustGet(r1, handler))
	assert.Equal(t, &box{A: 7, B: "r2"}, MustGet(r2, handler))

	_, err = root.Request(handler)
	assert.True(t, errors.IsScopeUnavailable(err))
}

func TestSubcomponent_ChildOfResolvingContainer(t *testing.T) {
	sub := NewSubcomponent("Sub", func(c *Container, _ ...any) *Container { return nil })
	root := NewRoot()
	mid := root.CreateChild()

	child, err := mid.Build(sub)
	require.NoError(t, err)
	assert.Same(t, mid, child.Parent())
}

func TestSubcomponent_BuildWrapper(t *testing.T) {
	tenant := NewKey[string](Named("Tenant"))
	sub := NewSubcomponent("TenantComponent", func(c *Container, args ...any) *Container {
		return c.ProvideInstance(tenant, args[0])
	})
	root := NewRoot()

	out, err := root.Request(map[string]any{"a": sub.Build("acme")})
	require.NoError(t, err)
	child := out.(map[string]any)["a"].(*Container)
	assert.Equal(t, "acme", MustGet(child, tenant))
}

func TestContainer_BuildRejectsNonFactories(t *testing.T) {
	c := NewRoot().ProvideInstance(numberKey, 1)

	_, err := c.Build(numberKey)
	assert.Equal(t, errors.CodeBuildFailed, errors.CodeOf(err))

	wrong := NewKey[func() int]()
	c.ProvideInstance(wrong, func() int { return 1 })
	_, err = c.Build(wrong)
	assert.True(t, errors.IsTypeMismatch(err))

	_, err = c.Build(stringKey)
	assert.True(t, errors.IsMissingBinding(err))
}
