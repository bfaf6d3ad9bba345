package handlers

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/activity"
	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const cacheControl = "private, max-age=60"

// window reads start and end (YYYY-MM-DD) from the query. A missing bound
// falls back to the span of the loaded data. A lone bound past either edge of
// that span gives an empty window, not an error.
func window(r *http.Request, e *metrics.Engine) (models.Window, error) {
	w := e.DataWindow()
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start != "" {
		t, err := time.Parse(models.DateLayout, start)
		if err != nil {
			return models.Window{}, errors.BadRequestWrap(err, "start must be YYYY-MM-DD")
		}
		w.Start = models.DateOnly(t)
	}
	if end != "" {
		t, err := time.Parse(models.DateLayout, end)
		if err != nil {
			return models.Window{}, errors.BadRequestWrap(err, "end must be YYYY-MM-DD")
		}
		w.End = models.DateOnly(t)
	}
	if w.End.Before(w.Start) {
		switch {
		case start != "" && end != "":
			return models.Window{}, errors.BadRequest("end must not be before start")
		case start != "":
			w.End = w.Start
		default:
			w.Start = w.End
		}
	}
	return w, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.BadRequest(fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return n, nil
}

func floatParam(r *http.Request, name string) (*float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.BadRequest(fmt.Sprintf("%s must be a number", name))
	}
	return &f, nil
}

// repParam resolves the {rep} path value and checks the session may see it.
func repParam(r *http.Request) (models.RepresentativeID, error) {
	rep := models.RepresentativeID(r.PathValue("rep"))
	if rep == "" {
		return "", errors.BadRequest("representative is required")
	}
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		return "", errors.Unauthorized("login required")
	}
	if !sess.CanView(rep) {
		return "", errors.Forbidden("sales representatives may only view their own data")
	}
	return rep, nil
}

// appError maps domain errors onto API error codes.
func appError(err error) error {
	var appErr *errors.AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.Is(err, metrics.ErrUnknownRepresentative):
		return errors.NotFoundWrap(err, "representative not found")
	case stderrors.Is(err, activity.ErrActivityUnavailable):
		return errors.NoData(err, "activity data unavailable")
	case stderrors.Is(err, activity.ErrNoActivity):
		return errors.NoData(err, "no activity recorded for this selection")
	case stderrors.Is(err, activity.ErrUnknownGroup):
		return errors.BadRequestWrap(err, "unknown activity group")
	case stderrors.Is(err, auth.ErrRoleMismatch):
		return errors.UnauthorizedWrap(err, "role does not match this user")
	case stderrors.Is(err, auth.ErrInvalidCredentials), stderrors.Is(err, auth.ErrSessionExpired):
		return errors.UnauthorizedWrap(err, "invalid username or password")
	default:
		return err
	}
}

func fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	requestID := observability.GetRequestID(r.Context())
	errors.WriteError(w, observability.LoggerFrom(r.Context(), logger), appError(err), requestID)
}

func respond(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}
