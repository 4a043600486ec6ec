package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

// RespondError sends a JSON error response and records the message on the
// request log when one is provided.
func RespondError(w http.ResponseWriter, rlog *RequestLog, message string, status int) {
	if rlog != nil {
		rlog.Add(message)
	} else {
		fmt.Println("[Error]", message)
	}
	RespondJSON(w, status, map[string]string{"error": message})
}

// RequestLog accumulates messages for one request and prints them in a
// single line-separated block when flushed, keeping concurrent requests'
// logs from interleaving.
type RequestLog struct {
	b strings.Builder
}

// NewRequestLog starts a log tagged with the handler name.
func NewRequestLog(tag string) *RequestLog {
	l := &RequestLog{}
	l.Add(tag)
	return l
}

func (l *RequestLog) Add(msg string) {
	l.b.WriteString(msg)
	l.b.WriteString(";\n")
}

func (l *RequestLog) Addf(format string, args ...interface{}) {
	l.Add(fmt.Sprintf(format, args...))
}

// Flush prints the accumulated log. Meant to be deferred at handler entry.
func (l *RequestLog) Flush() {
	fmt.Println(l.b.String())
}

// LatencyMiddleware logs the duration of each request
func LatencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		fmt.Printf("[LATENCY] %s %s - %v\n", r.Method, r.URL.Path, time.Since(start))
	})
}
