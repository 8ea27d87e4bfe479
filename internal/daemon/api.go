package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/pipeline"
)

// Router returns the HTTP API.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
		r.Get("/insight", s.handleInsight)
		r.Get("/prediction", s.handlePrediction)
		r.Get("/budgets", s.handleBudgets)
		r.Post("/check", s.handleCheck)
	})
	return r
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimiddleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

// CategoryView is one category row in API payloads.
type CategoryView struct {
	Category   model.Category `json:"category"`
	Label      string         `json:"label"`
	Amount     float64        `json:"amount"`
	Percentage float64        `json:"percentage"`
	Count      int            `json:"count"`
}

// ComparisonView is the month-over-month comparison.
type ComparisonView struct {
	Previous       float64     `json:"previous"`
	Current        float64     `json:"current"`
	Difference     float64     `json:"difference"`
	PercentageDiff float64     `json:"percentage_diff"`
	Trend          model.Trend `json:"trend"`
}

// InsightView is served at /v1/insight.
type InsightView struct {
	Month                  string          `json:"month"`
	TotalSpent             float64         `json:"total_spent"`
	TopCategory            model.Category  `json:"top_category"`
	AverageDaily           float64         `json:"average_daily"`
	Breakdown              []CategoryView  `json:"breakdown"`
	Comparison             *ComparisonView `json:"comparison,omitempty"`
	MostExpensiveDay       string          `json:"most_expensive_day,omitempty"`
	MostExpensiveDayAmount float64         `json:"most_expensive_day_amount,omitempty"`
}

// PredictionView is served at /v1/prediction.
type PredictionView struct {
	PredictedAmount   float64   `json:"predicted_amount"`
	Confidence        float64   `json:"confidence"`
	BasedOnMonths     int       `json:"based_on_months"`
	TrailingTotals    []float64 `json:"trailing_totals"`
	CurrentMonthTotal float64   `json:"current_month_total"`
	Recommendation    string    `json:"recommendation"`
}

// BudgetView is one entry served at /v1/budgets.
type BudgetView struct {
	ID         int64              `json:"id"`
	Category   model.Category     `json:"category"`
	Limit      float64            `json:"limit"`
	Period     model.BudgetPeriod `json:"period"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Spent      float64            `json:"spent"`
	Percentage float64            `json:"percentage"`
	Remaining  float64            `json:"remaining"`
	Status     model.BudgetStatus `json:"status"`
}

// NewInsightView converts an insight for the API.
func NewInsightView(in model.MonthlyInsight) InsightView {
	v := InsightView{
		Month:        in.Month.Format("2006-01"),
		TotalSpent:   in.TotalSpent,
		TopCategory:  in.TopCategory,
		AverageDaily: in.AverageDaily,
		Breakdown:    make([]CategoryView, 0, len(in.Breakdown)),
	}
	for _, c := range in.Breakdown {
		v.Breakdown = append(v.Breakdown, CategoryView{
			Category:   c.Category,
			Label:      c.Category.Label(),
			Amount:     c.Amount,
			Percentage: c.Percentage,
			Count:      c.Count,
		})
	}
	if c := in.Comparison; c != nil {
		v.Comparison = &ComparisonView{
			Previous:       c.Previous,
			Current:        c.Current,
			Difference:     c.Difference,
			PercentageDiff: c.PercentageDiff,
			Trend:          c.Trend,
		}
	}
	if in.MostExpensiveDay != nil {
		v.MostExpensiveDay = in.MostExpensiveDay.Format("2006-01-02")
		v.MostExpensiveDayAmount = in.MostExpensiveDayAmount
	}
	return v
}

// NewBudgetView converts budget progress for the API.
func NewBudgetView(p model.BudgetProgress) BudgetView {
	return BudgetView{
		ID:         p.Budget.ID,
		Category:   p.Budget.Category,
		Limit:      p.Budget.Limit,
		Period:     p.Budget.Period,
		StartDate:  p.Budget.StartDate.Format("2006-01-02"),
		EndDate:    p.Budget.EndDate.Format("2006-01-02"),
		Spent:      p.Spent,
		Percentage: p.Percentage,
		Remaining:  p.Remaining,
		Status:     p.Status,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleInsight(w http.ResponseWriter, r *http.Request) {
	month := s.cfg.Now()
	if q := r.URL.Query().Get("month"); q != "" {
		parsed, err := time.ParseInLocation("2006-01", q, time.Local)
		if err != nil {
			writeError(w, apperr.Validation("insight", fmt.Errorf("month must be YYYY-MM: %w", err)))
			return
		}
		month = parsed
	}

	insight, err := pipeline.ComputeInsight(r.Context(), s.ledger, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewInsightView(insight))
}

func (s *Service) handlePrediction(w http.ResponseWriter, r *http.Request) {
	p, err := pipeline.Predict(r.Context(), s.ledger, s.cfg.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	totals := p.TrailingTotals
	if totals == nil {
		totals = []float64{}
	}
	writeJSON(w, http.StatusOK, PredictionView{
		PredictedAmount:   p.PredictedAmount,
		Confidence:        p.Confidence,
		BasedOnMonths:     p.BasedOnMonths,
		TrailingTotals:    totals,
		CurrentMonthTotal: p.CurrentMonthTotal,
		Recommendation:    p.Recommendation,
	})
}

func (s *Service) handleBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.ledger.ActiveBudgets(r.Context())
	if err != nil {
		writeError(w, apperr.WrapKind("list budgets", apperr.KindDatabase, err))
		return
	}

	out := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		p, err := pipeline.ProgressFor(r.Context(), s.ledger, b)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, NewBudgetView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleCheck(w http.ResponseWriter, r *http.Request) {
	s.PollOnce(r.Context())
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindParse:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": apperr.UserMessage(err)})
}
