package di

import (
	"reflect"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/inject/internal/errors"
)

var (
	numberKey  = NewKey[int](Named("Number"))
	stringKey  = NewKey[string](Named("String"))
	arrayKey   = NewKey[[]string](Named("Array"))
	booleanKey = NewKey[bool](Named("Boolean"))
)

type box struct {
	A int
	B string
}

func constant(v any) Factory {
	return func(any) (any, error) { return v, nil }
}

// sameRef reports whether two maps, slices or pointers share storage.
func sameRef(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() != vb.Kind() {
		return false
	}
	if va.Kind() == reflect.Slice {
		return va.Len() > 0 && vb.Len() > 0 && va.Index(0).Addr().Pointer() == vb.Index(0).Addr().Pointer()
	}
	return va.Pointer() == vb.Pointer()
}

func TestContainer_ProvideAndRequest(t *testing.T) {
	out, err := NewRoot().Provide(numberKey, nil, constant(10)).Request(numberKey)
	require.NoError(t, err)
	assert.Equal(t, 10, out)
}

func TestContainer_ProvideInstance(t *testing.T) {
	inst := &box{A: 1}
	boxKey := NewKey[*box]()
	c := NewRoot().ProvideInstance(numberKey, 10).ProvideInstance(boxKey, inst)

	for range 3 {
		out, err := c.Request(numberKey)
		require.NoError(t, err)
		assert.Equal(t, 10, out)
		assert.Same(t, inst, MustGet(c, boxKey))
	}
}

func TestContainer_ProvideInstanceIgnoresKeyScope(t *testing.T) {
	scoped := NewKey[int](InScope(NewScope("Unowned")))
	out, err := NewRoot().ProvideInstance(scoped, 7).Request(scoped)
	require.NoError(t, err)
	assert.Equal(t, 7, out)
}

func TestContainer_RequestStructured(t *testing.T) {
	c := NewRoot().
		ProvideInstance(numberKey, 10).
		Provide(stringKey, nil, constant("foo")).
		Provide(arrayKey, nil, func(any) (any, error) { return []string{"a", "b"}, nil })

	out, err := c.Request(map[string]any{
		"a": numberKey,
		"b": stringKey,
		"c": map[string]any{"d": arrayKey},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": 10,
		"b": "foo",
		"c": map[string]any{"d": []string{"a", "b"}},
	}, out)

	seq, err := c.Request([]any{stringKey, nil, []Dependency{numberKey}})
	require.NoError(t, err)
	assert.Equal(t, []any{"foo", nil, []any{10}}, seq)
}

func TestContainer_InjectStructured(t *testing.T) {
	c := NewRoot().
		ProvideInstance(numberKey, 10).
		Provide(stringKey, nil, constant("foo")).
		Provide(arrayKey, map[string]any{
			"a": numberKey,
			"b": map[string]any{"c": stringKey},
		}, func(deps any) (any, error) {
			d := deps.(map[string]any)
			a := d["a"].(int)
			c := d["b"].(map[string]any)["c"].(string)
			return []string{strconv.Itoa(a), c}, nil
		})

	out, err := c.Request(arrayKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "foo"}, out)
}

func TestContainer_RequestOptional(t *testing.T) {
	c := NewRoot().
		ProvideInstance(numberKey, 10).
		Provide(stringKey, nil, constant("foo")).
		Provide(arrayKey, nil, func(any) (any, error) { return []string{"a", "b"}, nil })

	out, err := c.Request(map[string]any{
		"a": numberKey,
		"b": stringKey,
		"c": map[string]any{"d": arrayKey, "e": booleanKey.Optional()},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": 10,
		"b": "foo",
		"c": map[string]any{"d": []string{"a", "b"}, "e": nil},
	}, out)
}

func TestContainer_InjectLazy(t *testing.T) {
	c := NewRoot().
		ProvideInstance(numberKey, 10).
		Provide(stringKey, nil, constant("foo")).
		ProvideInstance(booleanKey, true).
		Provide(arrayKey, map[string]any{
			"a": numberKey.Lazy(),
			"b": Lazy(map[string]any{"c": stringKey}),
			"c": booleanKey,
		}, func(deps any) (any, error) {
			d := deps.(map[string]any)
			a, err := Force[int](d["a"].(Thunk))
			if err != nil {
				return nil, err
			}
			b, err := Force[map[string]any](d["b"].(Thunk))
			if err != nil {
				return nil, err
			}
			return []string{strconv.Itoa(a), b["c"].(string)}, nil
		})

	out, err := c.Request(arrayKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "foo"}, out)
}

func TestContainer_InjectProvider(t *testing.T) {
	sideEffect := 0
	c := NewRoot().
		ProvideInstance(numberKey, 10).
		Provide(stringKey, nil, func(any) (any, error) {
			sideEffect++
			return "foo", nil
		}).
		ProvideInstance(booleanKey, true).
		Provide(arrayKey, map[string]any{
			"a": numberKey,
			"b": map[string]any{"c": stringKey.Provider()},
			"c": booleanKey,
		}, func(deps any) (any, error) {
			d := deps.(map[string]any)
			get := d["b"].(map[string]any)["c"].(Thunk)
			first, _ := Force[string](get)
			second, _ := Force[string](get)
			return []string{strconv.Itoa(d["a"].(int)), first, second}, nil
		})

	out, err := c.Request(arrayKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "foo", "foo"}, out)
	assert.Equal(t, 2, sideEffect)
}

func TestContainer_ChildDefersToParent(t *testing.T) {
	parent := NewRoot().
		ProvideInstance(numberKey, 10).
		ProvideInstance(booleanKey, false).
		Provide(arrayKey, map[string]any{
			"a": numberKey,
			"b": map[string]any{"c": stringKey},
			"d": booleanKey,
		}, func(deps any) (any, error) {
			d := deps.(map[string]any)
			return []string{
				strconv.Itoa(d["a"].(int)),
				d["b"].(map[string]any)["c"].(string),
				strconv.FormatBool(d["d"].(bool)),
			}, nil
		})

	child := parent.CreateChild().
		Provide(stringKey, nil, constant("foo")).
		ProvideInstance(booleanKey, true)

	out, err := child.Request(arrayKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "foo", "true"}, out)
	assert.Same(t, parent, child.Parent())
}

func TestContainer_SingletonIdentity(t *testing.T) {
	customKey := NewKey[map[string]any](Named("Custom"))
	c := NewRoot().
		ProvideInstance(numberKey, 10).
		Provide(stringKey, nil, constant("foo")).
		ProvideInstance(booleanKey, false).
		ProvideScoped(customKey, Singleton, map[string]any{
			"num":  numberKey,
			"str":  stringKey,
			"bool": booleanKey,
		}, func(deps any) (any, error) { return deps, nil }).
		Provide(arrayKey, map[string]any{"num": numberKey, "str": stringKey}, func(deps any) (any, error) {
			d := deps.(map[string]any)
			return []string{strconv.Itoa(d["num"].(int)), d["str"].(string)}, nil
		})

	custom1, err := c.Request(customKey)
	require.NoError(t, err)
	custom2, err := c.Request(customKey)
	require.NoError(t, err)
	assert.True(t, sameRef(custom1, custom2))

	array1, err := c.Request(arrayKey)
	require.NoError(t, err)
	array2, err := c.Request(arrayKey)
	require.NoError(t, err)
	assert.Equal(t, array1, array2)
	assert.False(t, sameRef(array1, array2))
}

func TestContainer_ScopeTiers(t *testing.T) {
	myScope := NewScope("MyScope")
	joined := func(deps any) (any, error) {
		d := deps.(map[string]any)
		return []string{strconv.Itoa(d["num"].(int)), d["str"].(string)}, nil
	}

	parent := NewRoot().
		Provide(numberKey, nil, constant(10)).
		Provide(stringKey, nil, constant("foo")).
		ProvideScoped(arrayKey, myScope, map[string]any{"num": numberKey, "str": stringKey}, joined)

	child1 := parent.CreateChild(myScope).Provide(numberKey, nil, constant(20))
	grandChild1a := child1.CreateChild().Provide(stringKey, nil, constant("bar"))
	grandChild1b := child1.CreateChild().Provide(numberKey, nil, constant(30))

	out1, err := child1.Request(arrayKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"20", "foo"}, out1)

	for _, c := range []*Container{grandChild1a, grandChild1b} {
		out, err := c.Request(arrayKey)
		require.NoError(t, err)
		assert.True(t, sameRef(out1, out))
	}

	child2 := parent.CreateChild(myScope).Provide(numberKey, nil, constant(40))
	grandChild2a := child2.CreateChild().Provide(stringKey, nil, constant("baz"))
	grandChild2b := child2.CreateChild().Provide(numberKey, nil, constant(50))

	out2, err := grandChild2a.Request(arrayKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"40", "foo"}, out2)

	for _, c := range []*Container{child2, grandChild2b} {
		out, err := c.Request(arrayKey)
		require.NoError(t, err)
		assert.True(t, sameRef(out2, out))
	}
	assert.False(t, sameRef(out1, out2))

	absent, err := parent.Request(arrayKey.Optional())
	require.NoError(t, err)
	assert.Nil(t, absent)

	_, err = parent.Request(arrayKey)
	assert.True(t, errors.IsScopeUnavailable(err))
}

func TestKey_DefaultFunc(t *testing.T) {
	key1 := NewKey[*box](DefaultFunc(func() *box { return &box{A: 1} }))
	key2 := NewKey[*box](InScope(Singleton), DefaultFunc(func() *box { return &box{B: "b"} }))
	c := NewRoot()

	out1a := MustGet(c, key1)
	out1b := MustGet(c, key1)
	assert.Equal(t, &box{A: 1}, out1a)
	assert.Equal(t, out1a, out1b)
	assert.NotSame(t, out1a, out1b)

	out2a := MustGet(c, key2)
	out2b := MustGet(c, key2)
	assert.Equal(t, &box{B: "b"}, out2a)
	assert.Same(t, out2a, out2b)
}

func TestKey_DefaultWith(t *testing.T) {
	key1 := NewKey[*box](DefaultWith(map[string]any{"num": numberKey}, func(deps any) (*box, error) {
		return &box{A: deps.(map[string]any)["num"].(int)}, nil
	}))
	key2 := NewKey[*box](InScope(Singleton), DefaultWith(map[string]any{"str": stringKey}, func(deps any) (*box, error) {
		return &box{B: deps.(map[string]any)["str"].(string)}, nil
	}))

	c := NewRoot().ProvideInstance(numberKey, 1).ProvideInstance(stringKey, "foo")

	out1a := MustGet(c, key1)
	out1b := MustGet(c, key1)
	assert.Equal(t, &box{A: 1}, out1a)
	assert.NotSame(t, out1a, out1b)

	out2a := MustGet(c, key2)
	out2b := MustGet(c, key2)
	assert.Equal(t, &box{B: "foo"}, out2a)
	assert.Same(t, out2a, out2b)
}

func TestKey_DefaultInstance(t *testing.T) {
	inst := &box{A: 1}
	key := NewKey[*box](DefaultInstance(inst))

	out, err := Get(NewRoot(), key)
	require.NoError(t, err)
	assert.Same(t, inst, out)
}

func TestKey_DefaultTypeMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewKey[string](DefaultInstance(42))
	})
}

func TestKey_ExplicitBindingShadowsDefault(t *testing.T) {
	key := NewKey[string](DefaultInstance("default"))
	root := NewRoot().ProvideInstance(key, "explicit")
	grandChild := root.CreateChild().CreateChild()

	out, err := Get(grandChild, key)
	require.NoError(t, err)
	assert.Equal(t, "explicit", out)
}

func TestKey_ScopeRespected(t *testing.T) {
	myScope := NewScope("MyScope")
	customKey := NewKey[*box](Named("Custom"), InScope(myScope))
	build := func(deps any) (any, error) {
		return &box{A: deps.(map[string]any)["num"].(int)}, nil
	}

	parent := NewRoot().
		ProvideInstance(numberKey, 10).
		Provide(customKey, map[string]any{"num": numberKey}, build)

	child1 := parent.CreateChild(myScope).ProvideInstance(numberKey, 20)
	shared1 := child1.CreateChild().ProvideInstance(numberKey, 25)
	out1 := MustGet(child1, customKey)
	assert.Equal(t, &box{A: 20}, out1)
	assert.Same(t, out1, MustGet(shared1, customKey))

	// A descendant owning the scope again starts its own tier.
	grandChild1 := child1.CreateChild(myScope).ProvideInstance(numberKey, 30)
	inner := MustGet(grandChild1, customKey)
	assert.Equal(t, &box{A: 30}, inner)
	assert.NotSame(t, out1, inner)

	child2 := parent.CreateChild(myScope).ProvideInstance(numberKey, 40)
	out2 := MustGet(child2, customKey)
	assert.Equal(t, &box{A: 40}, out2)
	assert.NotSame(t, out1, out2)

	absent, err := parent.Request(customKey.Optional())
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestContainer_ProvidedScopeOverridesKeyScope(t *testing.T) {
	myScope := NewScope("MyScope")
	customKey := NewKey[*box](InScope(Singleton))

	parent := NewRoot().
		ProvideInstance(numberKey, 10).
		ProvideScoped(customKey, myScope, map[string]any{"num": numberKey}, func(deps any) (any, error) {
			return &box{A: deps.(map[string]any)["num"].(int)}, nil
		})

	child1 := parent.CreateChild(myScope).ProvideInstance(numberKey, 20)
	shared := child1.CreateChild().ProvideInstance(numberKey, 30)

	out := MustGet(child1, customKey)
	assert.Equal(t, &box{A: 20}, out)
	assert.Same(t, out, MustGet(shared, customKey))

	absent, err := parent.Request(customKey.Optional())
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestContainer_ReprovideOnDescendantDoesNotAlias(t *testing.T) {
	key := NewKey[*box](Named("Config"))
	root := NewRoot().ProvideScoped(key, Singleton, nil, func(any) (any, error) { return &box{A: 1}, nil })
	child := root.CreateChild().ProvideScoped(key, Singleton, nil, func(any) (any, error) { return &box{A: 2}, nil })
	sibling := root.CreateChild()

	assert.Equal(t, &box{A: 2}, MustGet(child, key))
	assert.Equal(t, &box{A: 1}, MustGet(root, key))
	assert.Same(t, MustGet(root, key), MustGet(sibling, key))
}

func TestContainer_ReprovideAfterFillKeepsEntry(t *testing.T) {
	key := NewKey[*box](Named("Config"))
	var second atomic.Int32
	c := NewRoot().ProvideScoped(key, Singleton, nil, func(any) (any, error) { return &box{A: 1}, nil })
	first := MustGet(c, key)

	c.ProvideScoped(key, Singleton, nil, func(any) (any, error) {
		second.Add(1)
		return &box{A: 2}, nil
	})
	assert.Same(t, first, MustGet(c, key))
	assert.Same(t, first, MustGet(c.CreateChild(), key))
	assert.Zero(t, second.Load())
	assert.True(t, c.Inspect(key).Cached)
}

func TestContainer_AddScopeAndOwns(t *testing.T) {
	s := NewScope("Session")
	c := NewRoot()
	assert.True(t, c.Owns(Singleton))
	assert.False(t, c.Owns(s))

	c.AddScope(s)
	assert.True(t, c.Owns(s))
	assert.False(t, c.CreateChild().Owns(s))
}

func TestContainer_Has(t *testing.T) {
	withDefault := NewKey[int](DefaultInstance(1))
	c := NewRoot().ProvideInstance(numberKey, 1)

	assert.True(t, c.Has(numberKey))
	assert.True(t, c.CreateChild().Has(numberKey))
	assert.True(t, c.Has(withDefault))
	assert.True(t, c.Has(ContainerKey))
	assert.False(t, c.Has(stringKey))
}

func TestContainer_Names(t *testing.T) {
	root := NewRoot(WithName("app"))
	assert.Equal(t, "app", root.Name())
	assert.Equal(t, "app/1", root.CreateChild().Name())
	assert.Equal(t, "app/2", root.CreateChild().Name())
	assert.Equal(t, "root", NewRoot().Name())
}

func TestContainer_ContainerKey(t *testing.T) {
	root := NewRoot()
	child := root.CreateChild()

	out, err := child.Request(ContainerKey)
	require.NoError(t, err)
	assert.Same(t, child, out)

	assert.Panics(t, func() { root.ProvideInstance(ContainerKey, root) })
}
