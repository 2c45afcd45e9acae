package client

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/netonframework/docsite/pkg/handler"
	"github.com/pkg/errors"
)

type httpTransport struct {
	client   *http.Client
	endpoint string
}

// NewHTTPTransport will create a new http transport for the given server and client.
// Caution: the provided server url is not validated!
func NewHTTPTransport(server string, client *http.Client) transport {
	return &httpTransport{
		endpoint: server,
		client:   client,
	}
}

func (ht *httpTransport) shutdown() {
	// nothing to do here
}

func (ht *httpTransport) call(ctx context.Context, route handler.Route, request interface{}, response interface{}) error {
	requestBytes, errMarshal := json.Marshal(request)
	if errMarshal != nil {
		return errors.Wrap(errMarshal, "could not marshal request")
	}
	req, errNewRequest := http.NewRequestWithContext(ctx,
		http.MethodPost,
		ht.endpoint+"/"+string(route),
		bytes.NewBuffer(requestBytes),
	)
	if errNewRequest != nil {
		return errNewRequest
	}
	req.Header.Set("Content-Type", "application/json")
	httpResponse, errDo := ht.client.Do(req)
	if errDo != nil {
		return errDo
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return errors.Errorf("non 200 reply: %s", httpResponse.Status)
	}
	responseBytes, errRead := io.ReadAll(httpResponse.Body)
	if errRead != nil {
		return errRead
	}
	return decodeReply(responseBytes, response)
}
