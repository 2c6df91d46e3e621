package decode_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fabianMendez/duffel/pkg/decode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsNonObjects(t *testing.T) {
	for _, input := range []string{`[]`, `"x"`, `12`} {
		_, err := decode.Parse([]byte(input), "airport")
		assert.Error(t, err, input)
	}
}

func TestRequiredAndOptional(t *testing.T) {
	o, err := decode.Parse([]byte(`{"id":"arp_1","name":"Heathrow","icao_code":null,"lat":51.47,"flag":true,"n":3}`), "airport")
	require.NoError(t, err)

	assert.Equal(t, "arp_1", o.String("id"))
	assert.Nil(t, o.OptString("icao_code"))
	assert.Nil(t, o.OptString("time_zone"))
	assert.Equal(t, "Heathrow", *o.OptString("name"))
	assert.InDelta(t, 51.47, *o.OptFloat("lat"), 0.0001)
	assert.True(t, o.Bool("flag"))
	assert.Equal(t, 3, o.Int("n"))
	assert.NoError(t, o.Err())
}

func TestMissingRequiredField(t *testing.T) {
	o, err := decode.Parse([]byte(`{"name":"Heathrow"}`), "airport")
	require.NoError(t, err)

	assert.Equal(t, "", o.String("id"))
	assert.Equal(t, "", o.String("name"), "reads after a failure return zero values")

	var decodeErr *decode.Error
	require.True(t, errors.As(o.Err(), &decodeErr))
	assert.Equal(t, "airport.id", decodeErr.Field)
}

func TestWrongKind(t *testing.T) {
	o, err := decode.Parse([]byte(`{"id":12}`), "")
	require.NoError(t, err)

	o.String("id")
	assert.EqualError(t, o.Err(), `invalid id "12": expected string, got number`)
}

func TestNestedPaths(t *testing.T) {
	o, err := decode.Parse([]byte(`{"slices":[{"origin":{"id":"a"}},{"origin":{}}]}`), "offer")
	require.NoError(t, err)

	ids := decode.List(o, "slices", func(s *decode.Object) string {
		return s.Object("origin").String("id")
	})

	assert.Equal(t, []string{"a"}, ids)
	var decodeErr *decode.Error
	require.True(t, errors.As(o.Err(), &decodeErr))
	assert.Equal(t, "offer.slices[1].origin.id", decodeErr.Field)
}

func TestCollections(t *testing.T) {
	o, err := decode.Parse([]byte(`{"ids":["a","b"],"empty":null,"metadata":{"k":"v"}}`), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, o.Strings("ids"))
	assert.Equal(t, []string{}, o.Strings("empty"))
	assert.Equal(t, []string{}, o.Strings("missing"))
	assert.Equal(t, []int{}, decode.List(o, "missing", func(*decode.Object) int { return 1 }))
	assert.Equal(t, map[string]string{"k": "v"}, o.StringMap("metadata"))
	assert.Nil(t, o.StringMap("nothing"))
	assert.NoError(t, o.Err())
}

func TestValue(t *testing.T) {
	parseColour := func(s string) (string, error) {
		if s != "red" && s != "blue" {
			return "", fmt.Errorf("must be one of red, blue")
		}
		return s, nil
	}

	o, err := decode.Parse([]byte(`{"a":"red","b":"green"}`), "paint")
	require.NoError(t, err)

	assert.Equal(t, "red", decode.Value(o, "a", parseColour))
	assert.Nil(t, decode.OptValue(o, "c", parseColour))
	assert.NoError(t, o.Err())

	decode.Value(o, "b", parseColour)
	var decodeErr *decode.Error
	require.True(t, errors.As(o.Err(), &decodeErr))
	assert.Equal(t, "paint.b", decodeErr.Field)
	assert.Equal(t, "green", decodeErr.Value)
}

func TestRawAndEscapes(t *testing.T) {
	o, err := decode.Parse([]byte(`{"source":{"field":"x"},"name":"café \"one\""}`), "")
	require.NoError(t, err)

	assert.JSONEq(t, `{"field":"x"}`, string(o.Raw("source")))
	assert.Equal(t, `café "one"`, o.String("name"))
	assert.Equal(t, `"café \"one\""`, string(o.Raw("name")))
	assert.Nil(t, o.Raw("missing"))
}

func TestRawControlCharacters(t *testing.T) {
	o, err := decode.Parse([]byte(`{"note":"tab\u0001bell\u2028end"}`), "")
	require.NoError(t, err)

	raw := o.Raw("note")
	require.True(t, json.Valid(raw), string(raw))

	var note string
	require.NoError(t, json.Unmarshal(raw, &note))
	assert.Equal(t, "tab\x01bell\u2028end", note)
	assert.Equal(t, o.String("note"), note)
}
