package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/upright/internal/analytics"
	"github.com/ayoisaiah/upright/internal/metrics"
	"github.com/ayoisaiah/upright/internal/models"
	"github.com/ayoisaiah/upright/internal/static"
	"github.com/ayoisaiah/upright/internal/timeutil"
	"github.com/ayoisaiah/upright/store"
)

const dateLayout = "2006-01-02"

type (
	TemplateData struct {
		Report      *analytics.Report
		StartTime   string
		EndTime     string
		Contexts    string
		JSON        template.JS
		Sessions    []models.Session
		Weekdays    []string
		Hours       []int
		Points      int
		RiskPeak    float64
		FatiguePeak float64
	}
)

type errorHandler func(w http.ResponseWriter, r *http.Request) error

func (h errorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err != nil {
		slog.Error(
			"stats request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)

		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Server serves the dashboard, the report as JSON and the metrics.
type Server struct {
	src     Source
	metrics *metrics.Metrics
	tpl     *template.Template
	now     func() time.Time
	loc     *time.Location
}

var templateFuncs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"heat": func(c analytics.Cell, peak float64) template.CSS {
		if c.Count == 0 || peak == 0 {
			return "transparent"
		}

		//nolint:gosec // numeric output only
		return template.CSS(fmt.Sprintf("rgba(220, 38, 38, %.2f)", 0.1+0.9*c.Mean()/peak))
	},
}

// NewServer loads the dashboard template from dataDir, falling back to the
// embedded copy.
func NewServer(src Source, m *metrics.Metrics, dataDir string) (*Server, error) {
	tpl, err := static.Dashboard(dataDir, templateFuncs)
	if err != nil {
		return nil, err
	}

	return &Server{
		src:     src,
		metrics: m,
		tpl:     tpl,
		now:     time.Now,
		loc:     time.Local,
	}, nil
}

// filter reads the range from the query string. It defaults to the last
// seven days.
func (s *Server) filter(r *http.Request) store.Filter {
	query := r.URL.Query()
	now := s.now().In(s.loc)

	startTime, err := time.ParseInLocation(dateLayout, query.Get("start_time"), s.loc)
	if err != nil {
		startTime = timeutil.RoundToStart(now.AddDate(0, 0, -6))
	}

	endTime, err := time.ParseInLocation(dateLayout, query.Get("end_time"), s.loc)
	if err != nil {
		endTime = now
	}

	var contexts []string

	for _, c := range strings.Split(query.Get("contexts"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			contexts = append(contexts, c)
		}
	}

	return store.Filter{
		Start:    timeutil.RoundToStart(startTime),
		End:      timeutil.RoundToEnd(endTime),
		Contexts: contexts,
	}
}

func (s *Server) Index(w http.ResponseWriter, r *http.Request) error {
	f := s.filter(r)

	st, err := Compute(s.src, f, s.loc)
	if err != nil {
		return err
	}

	b, err := json.Marshal(st)
	if err != nil {
		return err
	}

	data := &TemplateData{
		Report:      st.Report,
		StartTime:   f.Start.Format(dateLayout),
		EndTime:     f.End.Format(dateLayout),
		Contexts:    strings.Join(f.Contexts, ","),
		JSON:        template.JS(b), //nolint:gosec // marshalled by encoding/json
		Sessions:    st.Sessions,
		Points:      st.Points,
		RiskPeak:    st.Report.RiskHeatmap.Max(),
		FatiguePeak: st.Report.FatigueHeatmap.Max(),
	}

	for _, d := range analytics.Weekdays {
		data.Weekdays = append(data.Weekdays, d.String()[:3])
	}

	for h := range analytics.HoursInADay {
		data.Hours = append(data.Hours, h)
	}

	var buf bytes.Buffer

	err = s.tpl.Execute(&buf, data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	_, err = w.Write(buf.Bytes())

	return err
}

func (s *Server) Report(w http.ResponseWriter, r *http.Request) error {
	st, err := Compute(s.src, s.filter(r), s.loc)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")

	return json.NewEncoder(w).Encode(st)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/report", errorHandler(s.Report))
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("GET /{$}", errorHandler(s.Index))

	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port uint) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	pterm.Info.Printfln("starting server on port: %d", port)

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
