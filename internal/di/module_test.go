package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_AppliesPartsInOrder(t *testing.T) {
	var order []string
	record := func(name string) ModuleFunc {
		return func(c *Container) *Container {
			order = append(order, name)
			return c
		}
	}

	storage := NewModule("storage",
		record("db"),
		ModuleFunc(func(c *Container) *Container {
			order = append(order, "cache")
			return c.ProvideInstance(numberKey, 10)
		}),
	)
	app := NewModule("app", storage, record("http"))

	c := NewRoot().Apply(app, record("last"))

	assert.Equal(t, []string{"db", "cache", "http", "last"}, order)
	assert.Equal(t, "storage", storage.Name())
	assert.Equal(t, 10, MustGet(c, numberKey))
}

func TestModule_AppliedTwice(t *testing.T) {
	count := 0
	m := NewModule("counter", ModuleFunc(func(c *Container) *Container {
		count++
		return c.ProvideInstance(numberKey, count)
	}))

	c := NewRoot().Apply(m, m)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, MustGet(c, numberKey))
}

func TestModule_MayReturnNewContainer(t *testing.T) {
	requestScope := NewScope("Request")
	root := NewRoot()

	out := root.Apply(
		ModuleFunc(func(c *Container) *Container { return c.CreateChild(requestScope) }),
		ModuleFunc(func(c *Container) *Container { return c.ProvideInstance(stringKey, "child") }),
		ModuleFunc(func(*Container) *Container { return nil }),
		nil,
	)

	require.NotSame(t, root, out)
	assert.Same(t, root, out.Parent())
	assert.True(t, out.Owns(requestScope))
	assert.False(t, root.Has(stringKey))
	assert.Equal(t, "child", MustGet(out, stringKey))
}
