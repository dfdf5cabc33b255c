package xhttp

import "net/http"

const (
	Authorization = "Authorization"
	Accept        = "Accept"
	ContentType   = "Content-Type"
	UserAgent     = "User-Agent"
	XRequestID    = "X-Request-ID"
	XSessionID    = "X-Session-ID"
)

const ApplicationJSON = "application/json"

func SetRequestHeaderAcceptJSON(req *http.Request) {
	req.Header.Set(Accept, ApplicationJSON)
}

func SetRequestHeaderContentTypeJSON(req *http.Request) {
	req.Header.Set(ContentType, ApplicationJSON)
}

func SetRequestHeaderRequestID(req *http.Request, requestID string) {
	req.Header.Set(XRequestID, requestID)
}

func SetRequestHeaderSessionID(req *http.Request, sessionID string) {
	req.Header.Set(XSessionID, sessionID)
}

func SetRequestHeaderBearer(req *http.Request, token string) {
	req.Header.Set(Authorization, "Bearer "+token)
}

func SetHeaderContentTypeTextHTML(w http.ResponseWriter) {
	const textHTML = "text/html"
	w.Header().Set(ContentType, textHTML)
}
