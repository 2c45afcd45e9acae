package client

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/netonframework/docsite/pkg/handler"
	"github.com/netonframework/docsite/responses"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type transport interface {
	call(ctx context.Context, route handler.Route, request interface{}, response interface{}) error
	shutdown()
}

type serverResponse struct {
	Reply jsoniter.RawMessage `json:"reply"`
}

// decodeReply unwraps the reply envelope, error replies are returned as *responses.Error
func decodeReply(responseBytes []byte, response interface{}) error {
	envelope := &serverResponse{}
	if err := json.Unmarshal(responseBytes, envelope); err != nil {
		return errors.Wrapf(err, "could not unmarshal response %q", string(responseBytes))
	}
	if len(envelope.Reply) == 0 {
		return errors.New("empty reply")
	}
	remoteErr := &responses.Error{}
	if err := json.Unmarshal(envelope.Reply, remoteErr); err == nil && remoteErr.Code != 0 {
		return remoteErr
	}
	return errors.Wrap(json.Unmarshal(envelope.Reply, response), "could not unmarshal reply")
}
