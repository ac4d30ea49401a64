package main

import (
	"log"
	"net/http"

	"fileicon/internal/constants"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
)

type APIServer struct {
	addr string
}

func NewAPIServer(addr string) *APIServer {
	return &APIServer{
		addr: addr,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func NewLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{w, http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func RequestLoggerMiddleware(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lrw := NewLoggingResponseWriter(w)
		next.ServeHTTP(lrw, r)
		log.Printf("Method %s Path: %s, %d ", r.Method, r.URL.Path, lrw.statusCode)
	})
}

func RequestIDMiddleware(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-Id")
		if requestId == "" {
			requestId = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", requestId)
		w.Header().Set("Server", constants.USER_AGENT)
		next.ServeHTTP(w, r)
	})
}

func (s *APIServer) Run() error {
	router := http.NewServeMux()

	router.HandleFunc("GET /ping", PingHandler)
	router.HandleFunc("GET /icon", GetIconHandler)
	router.HandleFunc("GET /icon/base64", GetIconBase64Handler)
	router.HandleFunc("GET /icon/extension/{extension}", GetExtensionIconHandler)
	router.HandleFunc("GET /cache/stats", GetCacheStatsHandler)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET"},
		AllowedHeaders:   []string{"Content-Type", "FileIcon-Agent"},
		AllowCredentials: true,
	})

	handler := RequestLoggerMiddleware(RequestIDMiddleware(gzhttp.GzipHandler(c.Handler(router))))

	server := http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  0,
		WriteTimeout: 0,
	}

	log.Printf("Server has started %s", s.addr)

	return server.ListenAndServe()
}
