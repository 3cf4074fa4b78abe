package param

import "context"

type Fetcher interface {
	Fetch(context.Context, string) (string, error)
	// FetchAll returns every parameter under a path keyed by its base name.
	FetchAll(context.Context, string) (map[string]string, error)
}
