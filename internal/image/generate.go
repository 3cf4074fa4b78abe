package image

import (
	"context"
	"encoding/base64"

	"github.com/samber/mo"
)

const (
	DefaultCount          = 1
	DefaultSize           = "1024x1024"
	DefaultResponseFormat = "b64_json"
)

type Request struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

func NewRequest(prompt string) Request {
	return Request{
		Prompt:         prompt,
		N:              DefaultCount,
		Size:           DefaultSize,
		ResponseFormat: DefaultResponseFormat,
	}
}

type Response struct {
	Created int64   `json:"created"`
	Data    []Datum `json:"data"`
}

// Datum is one generated image. A null or missing field decodes as absent.
type Datum struct {
	URL     mo.Option[string] `json:"url"`
	B64JSON mo.Option[string] `json:"b64_json"`
}

// FirstImage decodes the base64 payload of the first image, reporting false
// when there is no image, no payload, or the payload is not valid base64.
func (r *Response) FirstImage() ([]byte, bool) {
	if r == nil || len(r.Data) == 0 {
		return nil, false
	}
	payload, ok := r.Data[0].B64JSON.Get()
	if !ok {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return data, true
}

type Generator interface {
	Generate(context.Context, string) (*Response, error)
}
