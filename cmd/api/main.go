package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"coach-insights-go/internal/aggregate"
	"coach-insights-go/internal/audio"
	"coach-insights-go/internal/dataset"
	"coach-insights-go/internal/logger"
	"coach-insights-go/internal/patterns"
	"coach-insights-go/internal/store"
	"coach-insights-go/internal/types"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "coach-insights-go").Info("starting service")

	// record source: published sheet CSV if configured, workbook otherwise
	sheetURL := os.Getenv("SHEET_CSV_URL")
	dataPath := envOr("DATASET_PATH", "call_coaching_master.xlsx")
	load := func() ([]types.CallRecord, error) {
		if sheetURL != "" {
			return dataset.FetchSheet(sheetURL)
		}
		return dataset.Load(dataPath)
	}

	recordsTTL := time.Duration(envInt("RECORDS_TTL_SEC", 60)) * time.Second
	audioTTL := time.Duration(envInt("AUDIO_CACHE_TTL_SEC", 3600)) * time.Second
	records := dataset.NewCache(recordsTTL, load)
	audioCache := audio.NewCache(audioTTL)

	// warm the cache so a broken source fails loudly at startup
	initial, err := records.Records()
	if err != nil {
		log.WithError(err).Fatal("failed to load call records")
	}
	log.WithField("total_calls", len(initial)).Info("call records loaded")

	// windowed returns the records for the request's window= parameter.
	windowed := func(r *http.Request) ([]types.CallRecord, store.Window, error) {
		all, err := records.Records()
		if err != nil {
			return nil, store.AllTime, err
		}
		w := store.ParseWindow(r.URL.Query().Get("window"))
		return store.FilterByWindow(all, w, time.Now()), w, nil
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	mux.HandleFunc("/agents", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "agents")
		recs, win, err := windowed(r)
		if err != nil {
			reqLog.WithError(err).Error("record load error")
			http.Error(w, "record load error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"window":      win.String(),
			"total_calls": len(recs),
			"agents":      store.Agents(recs),
		})
	})

	mux.HandleFunc("/agent", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "agent")
		name := r.URL.Query().Get("name")
		if name == "" {
			reqLog.Warn("missing name")
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}
		recs, _, err := windowed(r)
		if err != nil {
			reqLog.WithError(err).Error("record load error")
			http.Error(w, "record load error", http.StatusInternalServerError)
			return
		}
		agg := aggregate.ForAgent(recs, name)
		writeJSON(w, map[string]any{
			"aggregate":           agg,
			"top_listening":       patterns.RankEvents(agg.ListeningPatterns, 3),
			"top_missed_emotions": patterns.RankEvents(agg.EmotionalCuePatterns, 0),
			"top_strengths":       patterns.RankRemarks(agg.CommonStrengths, 5),
			"top_weaknesses":      patterns.RankRemarks(agg.CommonWeaknesses, 5),
		})
	})

	mux.HandleFunc("/team", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "team")
		recs, win, err := windowed(r)
		if err != nil {
			reqLog.WithError(err).Error("record load error")
			http.Error(w, "record load error", http.StatusInternalServerError)
			return
		}
		start := time.Now()
		team := aggregate.ForTeam(recs)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("window", win.String()).Info("team aggregation finished")
		writeJSON(w, team)
	})

	mux.HandleFunc("/moments", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "moments")
		recs, _, err := windowed(r)
		if err != nil {
			reqLog.WithError(err).Error("record load error")
			http.Error(w, "record load error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"feed":      patterns.ShareworthyFeed(recs),
			"champions": patterns.ChampionsByCategory(recs),
		})
	})

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "search")
		q := r.URL.Query().Get("q")
		if q == "" {
			http.Error(w, "missing q", http.StatusBadRequest)
			return
		}
		recs, _, err := windowed(r)
		if err != nil {
			reqLog.WithError(err).Error("record load error")
			http.Error(w, "record load error", http.StatusInternalServerError)
			return
		}
		matches := store.SearchTranscripts(recs, q)
		reqLog.WithField("matches", len(matches)).Info("search finished")
		writeJSON(w, map[string]any{"query": q, "matches": matches})
	})

	mux.HandleFunc("/audio", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "audio")
		url := r.URL.Query().Get("url")
		if url == "" {
			http.Error(w, "missing url", http.StatusBadRequest)
			return
		}
		data, err := audioCache.Get(url)
		if err != nil {
			reqLog.WithError(err).Warn("audio fetch failed")
			http.Error(w, "audio fetch failed", http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]any{"audio_base64": data})
	})

	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "refresh")
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		records.Invalidate()
		reqLog.Info("record cache invalidated")
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.New().WithError(err).Error("failed to write response")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
