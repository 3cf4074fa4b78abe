package image

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrConfiguration = errors.New("image: api key, url or endpoint not configured")
	ErrURL           = errors.New("image: invalid endpoint url")
	ErrEncode        = errors.New("image: could not encode request")
)

// ResponseError is returned for any status outside [200, 400).
type ResponseError struct {
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("image: bad server response: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
