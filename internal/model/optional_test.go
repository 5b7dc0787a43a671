package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionalHost struct {
	Name  Optional[string]  `json:"name,omitzero"`
	Count Optional[float64] `json:"count,omitzero"`
}

func TestOptionalDecodeStates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantSet  bool
		wantNull bool
		wantVal  string
	}{
		{"absent", `{}`, false, false, ""},
		{"explicit null", `{"name":null}`, true, true, ""},
		{"value", `{"name":"claude"}`, true, false, "claude"},
		{"empty string is a value", `{"name":""}`, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var h optionalHost
			require.NoError(t, json.Unmarshal([]byte(tt.input), &h))
			assert.Equal(t, tt.wantSet, h.Name.IsSet())
			assert.Equal(t, tt.wantNull, h.Name.IsNull())
			v, ok := h.Name.Get()
			assert.Equal(t, tt.wantSet && !tt.wantNull, ok)
			assert.Equal(t, tt.wantVal, v)
		})
	}
}

func TestOptionalEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host optionalHost
		want string
	}{
		{"all absent", optionalHost{}, `{}`},
		{"null clears", optionalHost{Name: Null[string]()}, `{"name":null}`},
		{"value", optionalHost{Name: Some("gpt"), Count: Some(1.5)}, `{"name":"gpt","count":1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := json.Marshal(tt.host)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestOptionalConstructors(t *testing.T) {
	t.Parallel()

	v, ok := Some(37.0).Get()
	assert.True(t, ok)
	assert.Equal(t, 37.0, v)

	n := Null[float64]()
	assert.True(t, n.IsSet())
	assert.True(t, n.IsNull())
	_, ok = n.Get()
	assert.False(t, ok)

	var zero Optional[float64]
	assert.False(t, zero.IsSet())
	assert.True(t, zero.IsZero())
}
