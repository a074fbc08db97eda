package logging

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// LoggingWrapper adapts a plain handler that reports its own error.
func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		if traceID := TraceID(req.Context()); traceID != "" {
			logData.AddData("traceID", traceID)
		}
		log.Infof("Handler.%v.Start", loggingName)

		endTimer := logData.AddTiming("duration")
		err := handler(w, req.WithContext(WithLogData(req.Context(), logData)), logData)
		endTimer()
		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}

// Middleware logs every request as Start and then Complete or Error, carrying
// the fields handlers add to the request's LogData.
func Middleware(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			loggingName := fmt.Sprintf("%s %s", req.Method, req.URL.Path)
			logData := NewLogData(log)
			if traceID := TraceID(req.Context()); traceID != "" {
				logData.AddData("traceID", traceID)
			}
			log.Debugf("Handler.%v.Start", loggingName)

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			endTimer := logData.AddTiming("duration")
			next.ServeHTTP(ww, req.WithContext(WithLogData(req.Context(), logData)))
			endTimer()

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logData.AddData("status", status)

			switch {
			case status >= http.StatusInternalServerError:
				logData.Log().Errorf("Handler.%v.Error", loggingName)
			case status >= http.StatusBadRequest:
				logData.Log().Warnf("Handler.%v.Complete", loggingName)
			default:
				logData.Log().Infof("Handler.%v.Complete", loggingName)
			}
		})
	}
}
