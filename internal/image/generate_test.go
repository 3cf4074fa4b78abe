package image

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestEncoding(t *testing.T) {
	body, err := json.Marshal(NewRequest("ramen"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"prompt":"ramen","n":1,"size":"1024x1024","response_format":"b64_json"}`, string(body))
}

func TestResponseOptionalFields(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"created":7,"data":[
		{"url":null,"b64_json":"aGVsbG8="},
		{"url":"https://example.com/a.png"}
	]}`), &resp))

	assert.EqualValues(t, 7, resp.Created)
	require.Len(t, resp.Data, 2)

	assert.True(t, resp.Data[0].URL.IsAbsent())
	assert.Equal(t, "aGVsbG8=", resp.Data[0].B64JSON.MustGet())

	assert.Equal(t, "https://example.com/a.png", resp.Data[1].URL.MustGet())
	assert.True(t, resp.Data[1].B64JSON.IsAbsent())
}

func TestFirstImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G', 0, 1, 2})

	tests := []struct {
		name string
		body string
		want []byte
		ok   bool
	}{
		{"valid", `{"created":1,"data":[{"b64_json":"` + payload + `"}]}`, []byte{0x89, 'P', 'N', 'G', 0, 1, 2}, true},
		{"hello", `{"created":1,"data":[{"b64_json":"aGVsbG8="}]}`, []byte("hello"), true},
		{"no data", `{"created":1,"data":[]}`, nil, false},
		{"null payload", `{"created":1,"data":[{"b64_json":null,"url":"https://x"}]}`, nil, false},
		{"missing payload", `{"created":1,"data":[{"url":"https://x"}]}`, nil, false},
		{"malformed payload", `{"created":1,"data":[{"b64_json":"not base64!"}]}`, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp Response
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))

			data, ok := resp.FirstImage()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestFirstImageNil(t *testing.T) {
	var resp *Response
	_, ok := resp.FirstImage()
	assert.False(t, ok)
}
