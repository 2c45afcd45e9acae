package handler

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/netonframework/docsite/pkg/metrics"
	"github.com/netonframework/docsite/pkg/repo"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/netonframework/docsite/requests"
	"github.com/netonframework/docsite/responses"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	sourceWebServer    = "webserver"
	sourceSocketServer = "socketserver"
)

// service executes json requests against the repo, shared by the http and socket transports
type service struct {
	l    *zap.Logger
	repo *repo.Repo
}

func (s *service) handleRequest(ctx context.Context, route Route, jsonBytes []byte, source string) ([]byte, error) {
	start := time.Now()

	reply, err := s.executeRequest(ctx, route, jsonBytes, source)
	result := "success"
	if err != nil {
		result = "error"
	}

	metrics.ServiceRequestCounter.WithLabelValues(string(route), result, source).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(string(route), result, source).Observe(time.Since(start).Seconds())

	return reply, err
}

func (s *service) executeRequest(ctx context.Context, route Route, jsonBytes []byte, source string) (replyBytes []byte, err error) {
	var (
		reply             interface{}
		apiErr            error
		jsonErr           error
		processIfJSONIsOk = func(err error, processingFunc func()) {
			if err != nil {
				jsonErr = err
				return
			}
			processingFunc()
		}
	)

	// getRepo is answered by the transports, the bytes go straight to the connection
	switch route {
	case RouteGetConfig:
		configRequest := &requests.Config{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &configRequest), func() {
			reply, apiErr = s.repo.GetConfig()
		})
	case RouteGetNav:
		navRequest := &requests.Nav{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &navRequest), func() {
			metrics.NavRequestCounter.WithLabelValues(source).Inc()
			reply, apiErr = s.repo.GetNav(navRequest)
		})
	case RouteGetSidebar:
		sidebarRequest := &requests.Sidebar{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &sidebarRequest), func() {
			metrics.NavRequestCounter.WithLabelValues(source).Inc()
			reply, apiErr = s.repo.GetSidebar(sidebarRequest)
		})
	case RouteGetPage:
		pageRequest := &requests.Page{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &pageRequest), func() {
			reply, apiErr = s.repo.GetPage(pageRequest)
		})
	case RouteValidate:
		validateRequest := &requests.Validate{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &validateRequest), func() {
			reply = s.validate(validateRequest)
		})
	case RouteUpdate:
		updateRequest := &requests.Update{}
		processIfJSONIsOk(json.Unmarshal(jsonBytes, &updateRequest), func() {
			reply = s.repo.Update(ctx)
		})
	default:
		reply = responses.NewError(responses.ErrorCodeUnknownRoute, "unknown handler: "+string(route))
	}

	// error handling
	if jsonErr != nil {
		s.l.Error("could not read incoming json", zap.Error(jsonErr))
		reply = responses.NewError(responses.ErrorCodeBadJSON, "could not read incoming json "+jsonErr.Error())
	} else if apiErr != nil {
		s.l.Error("an API error occurred", zap.Error(apiErr))
		reply = responses.NewError(responses.ErrorCodeAPI, "internal error "+apiErr.Error())
	}

	return s.encodeReply(reply)
}

// validate decodes and checks a config document, it never touches the loaded config
func (s *service) validate(req *requests.Validate) *responses.Validate {
	format := site.FormatJSON
	if req.Format != "" {
		format = site.Format(req.Format)
	}
	cfg, err := site.Decode([]byte(req.Config), format)
	if err != nil {
		return &responses.Validate{
			Errors: []*site.ValidationError{{Message: err.Error()}},
		}
	}
	if err := cfg.Validate(); err != nil {
		metrics.InvalidConfigCounter.WithLabelValues().Inc()
		return &responses.Validate{
			Errors: site.ValidationErrors(err),
		}
	}
	revision, err := cfg.Revision()
	if err != nil {
		return &responses.Validate{
			Errors: []*site.ValidationError{{Message: err.Error()}},
		}
	}
	return &responses.Validate{
		Valid:    true,
		Revision: revision,
	}
}

// encodeReply takes an interface and encodes it as JSON
// it returns the resulting JSON and a marshalling error
func (s *service) encodeReply(reply interface{}) (replyBytes []byte, err error) {
	replyBytes, err = json.Marshal(map[string]interface{}{
		"reply": reply,
	})
	if err != nil {
		s.l.Error("could not encode reply", zap.Error(err))
	}
	return
}
