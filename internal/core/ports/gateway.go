package ports

import "context"

// Gateway performs JSON requests against the remote trading API.
//
// body, when non-nil, is sent as JSON. out, when non-nil, receives the decoded
// response body. Failures are *domain.NetworkError or *domain.HTTPError.
type Gateway interface {
	Do(ctx context.Context, method, path string, body, out any) error
}
