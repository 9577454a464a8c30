package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/agora-bot/agora/cache"
	"github.com/agora-bot/agora/models"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/getsentry/raven-go"
)

// MeetingSource is the read side of the meetings service
type MeetingSource interface {
	Upcoming(ctx context.Context) ([]models.Meeting, error)
	Get(ctx context.Context, id int) (models.Meeting, error)
}

// IsNotFound reports whether an error returned by MeetingSource.Get means the meeting does not exist
type IsNotFound func(err error) bool

type resource struct {
	source     MeetingSource
	isNotFound IsNotFound
}

func NewRestServices(source MeetingSource, isNotFound IsNotFound) []*restful.WebService {
	r := &resource{source: source, isNotFound: isNotFound}
	services := make([]*restful.WebService, 0)

	service := new(restful.WebService)
	service.
		Path("/meetings").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	service.Route(service.GET("").To(r.GetUpcomingMeetings))
	service.Route(service.GET("/{meeting-id}").To(r.FindMeeting))
	services = append(services, service)

	return services
}

// NewContainer builds the http handler serving all rest services
func NewContainer(source MeetingSource, isNotFound IsNotFound) *restful.Container {
	wsContainer := restful.NewContainer()
	for _, service := range NewRestServices(source, isNotFound) {
		wsContainer.Add(service)
	}
	wsContainer.Filter(func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		// Log request and time
		now := time.Now()
		chain.ProcessFilter(req, resp)
		cache.GetLogger().WithField("module", "rest").Debug(fmt.Sprintf("received api request: %s %s (took %v)",
			req.Request.Method, req.Request.URL, time.Since(now)))
	})
	return wsContainer
}

func (r *resource) GetUpcomingMeetings(request *restful.Request, response *restful.Response) {
	meetings, err := r.source.Upcoming(request.Request.Context())
	if err != nil {
		writeError(response, http.StatusInternalServerError, err)
		return
	}

	returnMeetings := make([]models.Rest_Meeting, 0, len(meetings))
	for _, meeting := range meetings {
		returnMeetings = append(returnMeetings, models.NewRestMeeting(meeting))
	}
	response.WriteEntity(returnMeetings)
}

func (r *resource) FindMeeting(request *restful.Request, response *restful.Response) {
	id, err := strconv.Atoi(request.PathParameter("meeting-id"))
	if err != nil {
		response.WriteHeaderAndEntity(http.StatusBadRequest, models.Rest_Error{Error: "invalid meeting id"})
		return
	}

	meeting, err := r.source.Get(request.Request.Context(), id)
	if err != nil {
		if r.isNotFound != nil && r.isNotFound(err) {
			response.WriteHeaderAndEntity(http.StatusNotFound, models.Rest_Error{Error: "meeting not found"})
			return
		}
		writeError(response, http.StatusInternalServerError, err)
		return
	}
	response.WriteEntity(models.NewRestMeeting(meeting))
}

func writeError(response *restful.Response, status int, err error) {
	cache.GetLogger().WithField("module", "rest").Error(err.Error())
	raven.CaptureError(err, map[string]string{})
	response.WriteHeaderAndEntity(status, models.Rest_Error{Error: http.StatusText(status)})
}
