// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dancecollective/gigboard/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger gives handlers a uniform way to log a failure and show the
// user a friendly error page in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest records a client-side failure (validation, malformed input)
// and renders an error page with userMsg and a back link.
func (l *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	l.log.Warn(logMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong", backURL),
		Message: userMsg,
	}
	w.WriteHeader(http.StatusBadRequest)
	templates.Render(w, r, "error_server", data)
}

// LogServerError records an upstream or internal failure and renders the
// generic failure page with userMsg and a back link.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	l.log.Error(logMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong", backURL),
		Message: userMsg,
	}
	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error_server", data)
}
