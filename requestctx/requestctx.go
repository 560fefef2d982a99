package requestctx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RequestCtx struct {
	//A request ID which is used to correlate log entries to a request. Each request gets a random ID
	//which will be most likely a globally unique ID. The Requester could however chose a Request ID
	//in case they want to do multiple requests with a single ID (e.g. for troubleshooting).
	RequestID string

	//Request info for the access log
	Time       time.Time
	RemoteIP   string
	RequestURI string
	Referer    string
	UserAgent  string
	Host       string

	//Response info, updated by httptracking wrappers while the request runs
	BytesSent     uint64
	BytesReceived uint64
	HTTPStatus    int

	mu            sync.Mutex
	accessLogInfo map[string]map[string]slog.Attr
}

type key int

var requestCtxKey key

func getRandomRequestId() string {
	return uuid.New().String()
}

const XRequestID string = "X-Request-ID"

//A heuristic to cheaply check whether a structure is UUID4-like
//version info is not checked as the goal is mostly to have consistent
//logging format and lengths
func hasUUID4Format(s string) bool {
	if len(s) != 36 {
		return false
	}
	if s[8] != '-' || s[13] != '-' || s[23] != '-' {
		return false
	}
	return true
}

//Get the RequestId for a request. If none is provided a Unique uuid4
//will be generated and provided lower case. If the request provided
//it via the X-Request-ID
func getRequestIdFromHttpRequest(req *http.Request) string {
	reqId := req.Header.Get(XRequestID)
	if reqId == "" || !hasUUID4Format(reqId) {
		return getRandomRequestId() //This is a lower case string
	} else {
		return strings.ToUpper(reqId) //We force this to be upper case
	}
}

func remoteIPFromHttpRequest(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}

func NewContextFromHttpRequest(req *http.Request) context.Context {
	return NewContextFromHttpRequestWithStartTime(req, time.Now())
}

func NewContextFromHttpRequestWithStartTime(req *http.Request, startTime time.Time) context.Context {
	rCtx := RequestCtx{
		RequestID:  getRequestIdFromHttpRequest(req),
		Time:       startTime,
		RemoteIP:   remoteIPFromHttpRequest(req),
		RequestURI: req.RequestURI,
		Referer:    req.Referer(),
		UserAgent:  req.UserAgent(),
		Host:       req.Host,
	}
	return NewContext(req.Context(), &rCtx)
}

func NewContext(ctx context.Context, rCtx *RequestCtx) context.Context {
	return context.WithValue(ctx, requestCtxKey, rCtx)
}

func FromContext(ctx context.Context) (*RequestCtx, bool) {
	rCtx, ok := ctx.Value(requestCtxKey).(*RequestCtx)
	return rCtx, ok
}

func GetRequestID(ctx context.Context) string {
	rCtx, ok := FromContext(ctx)
	if ok {
		return rCtx.RequestID
	}
	return ""
}

//AddAccessLogInfo registers extra attributes to be emitted with the final
//access log line of the request. Attributes are grouped per component.
func (r *RequestCtx) AddAccessLogInfo(group string, attrs ...slog.Attr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.accessLogInfo == nil {
		r.accessLogInfo = map[string]map[string]slog.Attr{}
	}
	groupInfo, ok := r.accessLogInfo[group]
	if !ok {
		groupInfo = map[string]slog.Attr{}
		r.accessLogInfo[group] = groupInfo
	}
	for _, attr := range attrs {
		groupInfo[attr.Key] = attr
	}
}

//AddAccessLogInfo on whatever RequestCtx travels in ctx. Without one this
//is a no-op so components can log unconditionally.
func AddAccessLogInfo(ctx context.Context, group string, attrs ...slog.Attr) {
	rCtx, ok := FromContext(ctx)
	if !ok {
		return
	}
	rCtx.AddAccessLogInfo(group, attrs...)
}

func (r *RequestCtx) GetAccessLogInfo() (logAttrs []slog.Attr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for group, groupInfo := range r.accessLogInfo {
		attrs := make([]any, 0, len(groupInfo))
		for _, attr := range groupInfo {
			attrs = append(attrs, attr)
		}
		logAttrs = append(logAttrs, slog.Group(group, attrs...))
	}
	return logAttrs
}

//GetAccessLogStringInfo gets a previously registered string attribute or the
//empty string when it was never set.
func GetAccessLogStringInfo(req *http.Request, group, key string) string {
	rCtx, ok := FromContext(req.Context())
	if !ok {
		return ""
	}
	rCtx.mu.Lock()
	defer rCtx.mu.Unlock()
	groupInfo, ok := rCtx.accessLogInfo[group]
	if !ok {
		return ""
	}
	attr, ok := groupInfo[key]
	if !ok {
		return ""
	}
	return attr.Value.String()
}
