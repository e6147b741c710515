package jsonval_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainforge/walletcore/jsonval"
)

func TestParseScalars(t *testing.T) {
	v, err := jsonval.Parse([]byte(`null`))
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	v, err = jsonval.Parse([]byte(`true`))
	require.NoError(t, err)
	b, err := v.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	v, err = jsonval.Parse([]byte(`42`))
	require.NoError(t, err)
	assert.Equal(t, jsonval.KindInt, v.Kind())
	i, err := v.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)

	v, err = jsonval.Parse([]byte(`1.5`))
	require.NoError(t, err)
	assert.Equal(t, jsonval.KindFloat, v.Kind())
	f, err := v.Float64()
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	v, err = jsonval.Parse([]byte(`"hi"`))
	require.NoError(t, err)
	s, err := v.Str()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
}

func TestParseNested(t *testing.T) {
	v, err := jsonval.Parse([]byte(`{"type":"function","inputs":[{"name":"to","indexed":false}],"n":3}`))
	require.NoError(t, err)

	members, err := v.Members()
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "type", members[0].Key)
	assert.Equal(t, "inputs", members[1].Key)
	assert.Equal(t, "n", members[2].Key)

	typ, ok := v.Get("type")
	require.True(t, ok)
	s, err := typ.Str()
	require.NoError(t, err)
	assert.Equal(t, "function", s)

	inputs, ok := v.Get("inputs")
	require.True(t, ok)
	elems, err := inputs.Array()
	require.NoError(t, err)
	require.Len(t, elems, 1)

	indexed, ok := elems[0].Get("indexed")
	require.True(t, ok)
	b, err := indexed.Bool()
	require.NoError(t, err)
	assert.False(t, b)

	_, ok = v.Get("missing")
	assert.False(t, ok)
}

func TestKindErrors(t *testing.T) {
	v := jsonval.String("x")
	_, err := v.Int64()
	assert.Error(t, err)
	_, err = v.Array()
	assert.Error(t, err)
	_, err = v.Members()
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{``, `{`, `[1,`, `{"a"}`, `1 2`, `tru`} {
		_, err := jsonval.Parse([]byte(bad))
		assert.Error(t, err, "input %q", bad)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	const doc = `{"a":[1,2.5,"x",null,true],"b":{"c":false}}`
	v, err := jsonval.Parse([]byte(doc))
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, doc, string(out))
}

func TestConstructors(t *testing.T) {
	obj := jsonval.Object(
		jsonval.Member{Key: "k", Value: jsonval.Int(7)},
	)
	got, ok := obj.Get("k")
	require.True(t, ok)
	i, err := got.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(7), i)

	arr := jsonval.Array(jsonval.Bool(true), jsonval.Null())
	elems, err := arr.Array()
	require.NoError(t, err)
	assert.Len(t, elems, 2)
}
