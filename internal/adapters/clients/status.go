package clients

import "context"

type statusKey struct{}

// ResponseStatus receives the HTTP status code of the last response returned
// for a request made with a context from CaptureStatus.
type ResponseStatus struct {
	Code int
}

// CaptureStatus returns a context that records response status codes.
// SDKs that hide the *http.Response still pass the context through, so the
// status can be read after the call returns, including when it returned an error.
func CaptureStatus(ctx context.Context) (context.Context, *ResponseStatus) {
	status := &ResponseStatus{}

	return context.WithValue(ctx, statusKey{}, status), status
}

func recordStatus(ctx context.Context, code int) {
	if status, ok := ctx.Value(statusKey{}).(*ResponseStatus); ok {
		status.Code = code
	}
}
