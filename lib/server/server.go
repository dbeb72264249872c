package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	log "github.com/sirupsen/logrus"
	"github.com/suwen-susan/swe1-app/lib/client"
	"github.com/suwen-susan/swe1-app/lib/config"
	custom_middleware "github.com/suwen-susan/swe1-app/middleware"
	"github.com/suwen-susan/swe1-app/models"
	"github.com/suwen-susan/swe1-app/public"
)

type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	if viewContext, isMap := data.(map[string]interface{}); isMap {
		viewContext["key"] = custom_middleware.Key(c)
		viewContext["Admin"] = custom_middleware.IsAdmin(c)
	}

	return t.templates.ExecuteTemplate(w, name, data)
}

type Server struct {
	Echo *echo.Echo

	app client.Client
	cfg config.Config
}

func New(app client.Client, cfg config.Config) (*Server, error) {
	s := &Server{
		Echo: echo.New(),
		app:  app,
		cfg:  cfg,
	}

	e := s.Echo
	e.HideBanner = true
	e.Debug = cfg.Debug
	e.Logger.SetLevel(glog.INFO)
	if cfg.Debug {
		e.Logger.SetLevel(glog.DEBUG)
	}

	funcs := template.FuncMap{
		"questionUrl": app.QuestionUrl,
		"resultsUrl":  app.ResultsUrl,
		"voteUrl":     app.VoteUrl,
		"recent": func(q models.Question) bool {
			return q.WasPublishedRecently(app.CurrentTime())
		},
		"ago": func(t time.Time) string {
			return humanize.RelTime(t, app.CurrentTime(), "ago", "from now")
		},
		"pluralize": func(n int) string {
			if n == 1 {
				return ""
			}
			return "s"
		},
	}

	templates, err := template.New("root").Funcs(funcs).ParseFS(public.FS, "views/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	e.Renderer = &Template{templates: templates}

	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))
	e.Pre(custom_middleware.ApiKey(cfg.AdminKey))
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1 << 10, // 1 KB
	}))

	s.routes()

	return s, nil
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogError:     true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogUserAgent: true,
		LogRequestID: true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := log.Fields{
				"URI":        v.URI,
				"status":     v.Status,
				"method":     v.Method,
				"host":       v.Host,
				"request_id": v.RequestID,
				"admin":      custom_middleware.IsAdmin(c),
				"latency":    v.Latency,
				"useragent":  v.UserAgent,
			}

			if v.Error == nil {
				log.WithFields(fields).Info("request")
			} else {
				fields["error"] = v.Error
				log.WithFields(fields).Error("request error")
			}
			return nil
		},
	})
}

func (s *Server) routes() {
	e := s.Echo

	e.StaticFS("/public/css", echo.MustSubFS(public.FS, "css"))

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/polls/")
	})

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/polls/", s.index)
	e.GET("/polls/count", s.count)
	e.GET("/polls/:id/", s.detail)
	e.GET("/polls/:id/results/", s.results)
	e.POST("/polls/:id/vote/", s.vote)

	admin := e.Group("/admin", custom_middleware.AdminKeyAuth(s.cfg.AdminKey))
	admin.POST("/questions", s.createQuestion)
	admin.DELETE("/questions/:id", s.deleteQuestion)
}

func (s *Server) Start() error {
	log.WithField("port", s.cfg.Port).Info("listening")
	return s.Echo.Start(":" + s.cfg.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
