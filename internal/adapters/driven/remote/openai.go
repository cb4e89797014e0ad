package remote

import (
	"context"
	"errors"
	"net"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// ClassifyOpenAI maps a go-openai client error to a domain error.
func ClassifyOpenAI(service string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return ClassifyStatus(service, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return ClassifyStatus(service, reqErr.HTTPStatusCode, body)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ClassifyTransport(service, err)
	}

	return InvalidResponse(service, "%v", err)
}
