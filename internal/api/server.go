package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/caff2jpg/internal/convert"
	"github.com/samcharles93/caff2jpg/internal/logger"
	"github.com/samcharles93/caff2jpg/internal/version"
	"github.com/samcharles93/caff2jpg/pkg/caff"
)

const (
	HeaderRequestID = "X-Request-Id"

	DefaultMaxBodyBytes int64 = 64 << 20
)

var (
	errBodyTooLarge = errors.New("request body too large")
	errUnknownKind  = errors.New("unknown input kind")
)

type Config struct {
	MaxBodyBytes int64
	Quality      int
	Strict       bool
}

type Server struct {
	cfg Config
	log logger.Logger
}

func NewServer(cfg Config, log logger.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{cfg: cfg, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.Use(requestID)
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/convert/:kind", s.handleConvert)
	e.POST("/v1/inspect/:kind", s.handleInspect)
}

func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Request().Header.Set(HeaderRequestID, id)
		c.Response().Header().Set(HeaderRequestID, id)
		return next(c)
	}
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.String(),
	})
}

func (s *Server) handleConvert(c *echo.Context) error {
	start := time.Now()
	log := s.requestLogger(c)

	frame, err := s.decode(c)
	if err != nil {
		return s.writeError(c, log, err)
	}

	quality, err := s.quality(c)
	if err != nil {
		return s.writeError(c, log, err)
	}
	if err := c.Request().Context().Err(); err != nil {
		return s.writeError(c, log, err)
	}

	var buf bytes.Buffer
	if err := frame.Encode(&buf, quality); err != nil {
		return s.writeError(c, log, err)
	}

	log.Info("converted",
		"width", frame.CIFF.Width,
		"height", frame.CIFF.Height,
		"frames", frame.Frames(),
		"bytes", buf.Len(),
		"elapsed", time.Since(start).String(),
	)
	return c.Blob(http.StatusOK, "image/jpeg", buf.Bytes())
}

func (s *Server) handleInspect(c *echo.Context) error {
	log := s.requestLogger(c)

	in, err := s.readInput(c)
	if err != nil {
		return s.writeError(c, log, err)
	}
	summary, err := convert.Inspect(in.data, in.mode, in.opts)
	if err != nil {
		return s.writeError(c, log, err)
	}
	log.Debug("inspected", "frames", len(summary.Frames))
	return writeJSON(c, http.StatusOK, summary)
}

type input struct {
	mode convert.Mode
	opts caff.Options
	data []byte
}

func (s *Server) decode(c *echo.Context) (*convert.Frame, error) {
	in, err := s.readInput(c)
	if err != nil {
		return nil, err
	}
	return convert.DecodeFirstFrame(in.data, in.mode, in.opts)
}

// readInput resolves the kind, options and body of a conversion request.
func (s *Server) readInput(c *echo.Context) (input, error) {
	mode, err := convert.ParseMode(c.Param("kind"))
	if err != nil {
		return input{}, fmt.Errorf("%w: %q", errUnknownKind, c.Param("kind"))
	}
	opts := caff.Options{Strict: s.cfg.Strict}
	if v := c.Request().URL.Query().Get("strict"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return input{}, newInvalidRequest(fmt.Sprintf("strict: %v", err))
		}
		opts.Strict = strict
	}

	body, err := readBody(c.Request().Body, s.cfg.MaxBodyBytes)
	if err != nil {
		return input{}, err
	}
	return input{mode: mode, opts: opts, data: body}, nil
}

func (s *Server) quality(c *echo.Context) (int, error) {
	v := c.Request().URL.Query().Get("quality")
	if v == "" {
		return s.cfg.Quality, nil
	}
	q, err := strconv.Atoi(v)
	if err != nil || q < 1 || q > 100 {
		return 0, newInvalidRequest("quality must be an integer between 1 and 100")
	}
	return q, nil
}

func (s *Server) requestLogger(c *echo.Context) logger.Logger {
	return s.log.With(
		"request_id", c.Response().Header().Get(HeaderRequestID),
		"path", c.Request().URL.Path,
	)
}

func (s *Server) writeError(c *echo.Context, log logger.Logger, err error) error {
	status, errType := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Warn("request rejected", "status", status, "error", err)
	}
	return writeJSON(c, status, map[string]any{
		"error": ErrorBody{
			Message:   err.Error(),
			Type:      errType,
			RequestID: c.Response().Header().Get(HeaderRequestID),
		},
	})
}

// readBody reads at most limit bytes and fails if the body is longer.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, newInvalidRequest("empty body")
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", caff.ErrIO, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, limit)
	}
	return data, nil
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}
