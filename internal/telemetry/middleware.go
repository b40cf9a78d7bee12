package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"paygate-telemetry/internal/identity"
	"paygate-telemetry/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler is the wrapped route signature: business logic receives the Gin
// context plus the per-request telemetry Context and reports failure by
// returning an error. A *ChallengeError return is a designed outcome
// (e.g. "authentication required"), not a failure.
type Handler func(c *gin.Context, tc *Context) error

// maxBodyCapture bounds forensic body capture. Bodies beyond the limit are
// truncated in the record; the handler still sees the full stream.
const maxBodyCapture = 64 << 10

// Interceptor wraps route handlers with the invocation-recording
// lifecycle. It owns no per-request state; everything mutable lives in the
// request's own task.
type Interceptor struct {
	rec    *Recorder
	origin string
}

// NewInterceptor builds an Interceptor. origin names this serving
// instance and is stamped on every record; it is never caller-supplied.
func NewInterceptor(rec *Recorder, origin string) *Interceptor {
	return &Interceptor{rec: rec, origin: origin}
}

// Wrap surrounds a handler with telemetry capture.
//
// Guarantees:
// - exactly one record-write attempt per request, whatever the outcome;
// - nothing in the telemetry path ever alters the response: capture and
//   write failures are logged locally and discarded;
// - handler panics are re-raised after the record attempt so the
//   framework's recovery middleware keeps its normal semantics;
// - genuine handler errors are forwarded to Gin's error chain after the
//   record attempt.
func (ic *Interceptor) Wrap(h Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		inv := Invocation{
			ID:     uuid.NewString(),
			Method: c.Request.Method,
			Route:  routePath(c),
			Origin: ic.origin,
		}
		tc := &Context{invocationID: inv.ID}

		captureIdentity(c.Request, tc)
		reqBody := captureRequestBody(c)
		tc.AssertVerifiedWallet(identity.Extract(c.Request.Header))

		cw := newCaptureWriter(c.Writer)
		c.Writer = cw

		var handlerErr error
		var panicVal any
		panicked := false
		func() {
			defer func() {
				if p := recover(); p != nil {
					panicked = true
					panicVal = p
				}
			}()
			handlerErr = h(c, tc)
		}()

		handlerErr = resolveOutcome(c, handlerErr, panicked)

		func() {
			defer func() {
				if p := recover(); p != nil {
					logger.FromGin(c).Error("telemetry capture failed", "panic", p, "invocation_id", inv.ID)
				}
			}()

			inv.SelfReportedWallet = tc.SelfReportedWallet()
			inv.ClientID = tc.ClientID()
			inv.SessionID = tc.SessionID()
			inv.VerifiedWallet = tc.VerifiedWallet()
			inv.Referer = c.Request.Header.Get("Referer")

			inv.RequestContentType = c.Request.Header.Get("Content-Type")
			inv.RequestHeaders = marshalHeaders(c.Request.Header)
			inv.RequestBody = reqBody

			inv.StatusCode = cw.Status()
			inv.StatusText = statusText(c.Request.Context(), cw.Status())
			inv.ResponseContentType = cw.Header().Get("Content-Type")
			inv.ResponseHeaders = marshalHeaders(cw.Header())
			inv.ResponseBody = cw.BodyString()

			inv.DurationMs = time.Since(start).Milliseconds()

			ic.rec.Record(inv)
		}()

		if panicked {
			panic(panicVal)
		}
		if handlerErr != nil {
			_ = c.Error(handlerErr)
		}
	}
}

// resolveOutcome normalizes the handler result into a written response and
// returns the error that should still reach the framework, if any.
func resolveOutcome(c *gin.Context, handlerErr error, panicked bool) error {
	if panicked {
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return nil
	}
	if handlerErr == nil {
		return nil
	}

	var challenge *ChallengeError
	if errors.As(handlerErr, &challenge) {
		if !c.Writer.Written() {
			body := challenge.Body
			if body == nil {
				body = gin.H{"error": http.StatusText(challenge.Status)}
			}
			c.JSON(challenge.Status, body)
		}
		// Designed protocol outcome, nothing to forward.
		return nil
	}

	var se *StatusError
	if errors.As(handlerErr, &se) {
		if !c.Writer.Written() {
			c.JSON(se.Status, gin.H{"error": se.Error()})
		}
		return handlerErr
	}

	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": handlerErr.Error()})
	}
	return handlerErr
}

// captureIdentity reads caller-identity headers. Best-effort: a failure
// leaves the remaining fields at their absent defaults and the request
// proceeds.
func captureIdentity(r *http.Request, tc *Context) {
	defer func() { _ = recover() }()

	tc.selfReportedWallet = strings.ToLower(strings.TrimSpace(r.Header.Get(identity.HeaderSelfReportedWallet)))
	tc.clientID = strings.TrimSpace(r.Header.Get(identity.HeaderClientID))
	tc.sessionID = strings.TrimSpace(r.Header.Get(identity.HeaderSessionID))
}

// captureRequestBody drains up to maxBodyCapture bytes for forensic
// capture and restores the stream so the handler reads it un-consumed.
// Read failure leaves the capture absent and the request proceeds.
func captureRequestBody(c *gin.Context) (captured string) {
	defer func() {
		if recover() != nil {
			captured = ""
		}
	}()

	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}
	if c.Request.Body == nil {
		return ""
	}

	buf, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyCapture))
	// Whatever was consumed is stitched back in front of the remainder so
	// the handler sees the original stream.
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(buf), c.Request.Body))
	if err != nil {
		return ""
	}
	return string(buf)
}

func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

func marshalHeaders(h http.Header) string {
	if len(h) == 0 {
		return ""
	}
	b, err := json.Marshal(h)
	if err != nil {
		return ""
	}
	return string(b)
}

func statusText(ctx context.Context, status int) string {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return "request timed out"
	case context.Canceled:
		return "request canceled"
	}
	return http.StatusText(status)
}

// captureWriter tees the response body into a bounded buffer while
// delegating everything else to the framework's writer.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

var _ gin.ResponseWriter = (*captureWriter)(nil)

func newCaptureWriter(w gin.ResponseWriter) *captureWriter {
	return &captureWriter{ResponseWriter: w}
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.capture(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *captureWriter) capture(b []byte) {
	if remaining := maxBodyCapture - w.body.Len(); remaining > 0 {
		if len(b) > remaining {
			b = b[:remaining]
		}
		w.body.Write(b)
	}
}

func (w *captureWriter) BodyString() string { return w.body.String() }
