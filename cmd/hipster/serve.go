package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdrpinto/hipster"
	"github.com/pdrpinto/hipster/algorithm"
	"github.com/pdrpinto/hipster/internal/logging"
	"github.com/pdrpinto/hipster/internal/scenario"
	"github.com/pdrpinto/hipster/problem"
)

//go:embed static/index.html
var staticFS embed.FS

const (
	defaultStepDelay = 30 * time.Millisecond
	maxStepDelay     = 5 * time.Second
	writeTimeout     = 10 * time.Second
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a step-by-step search visualiser over a websocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := logging.New("serve")
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	listener, err := net.Listen("tcp", serveFlags.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{
		Handler:           newVisualiser(logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Visualiser: http://%s\n", listener.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// frame is one websocket message. The first frame of a stream has type
// "setup" and describes the scenario; every later frame is a "step".
type frame struct {
	Type      string   `json:"type"`
	Scenario  string   `json:"scenario,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	Algorithm string   `json:"algorithm,omitempty"`
	Rows      []string `json:"rows,omitempty"`
	Step      int      `json:"step"`
	Current   string   `json:"current,omitempty"`
	Cost      string   `json:"cost,omitempty"`
	Done      bool     `json:"done"`
	Found     bool     `json:"found"`
	Path      []string `json:"path,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type streamRequest struct {
	scenario  *scenario.Scenario
	algorithm string
	epsilon   float64
	delay     time.Duration
}

type visualiser struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader
	rng      func() *rand.Rand
}

func newVisualiser(logger *slog.Logger) *visualiser {
	return &visualiser{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
		},
		rng: func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
}

func (v *visualiser) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", v.handleIndex)
	mux.HandleFunc("GET /scenarios", v.handleScenarios)
	mux.HandleFunc("GET /ws", v.handleStream)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (v *visualiser) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "index.html not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (v *visualiser) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	names, err := scenario.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	type entry struct {
		Name        string `json:"name"`
		Kind        string `json:"kind"`
		Description string `json:"description,omitempty"`
	}
	entries := make([]entry, 0, len(names))
	for _, name := range names {
		s, err := scenario.LoadBuiltin(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		entries = append(entries, entry{Name: s.Name, Kind: string(s.Kind), Description: s.Description})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"scenarios": entries, "algorithms": strategies})
}

func (v *visualiser) handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := v.parseStreamRequest(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := v.upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// the client never sends data; reading only surfaces its close
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	v.logger.Info("stream started",
		slog.String("scenario", req.scenario.Name),
		slog.String("algorithm", req.algorithm))
	if err := streamScenario(ctx, conn, req); err != nil && !errors.Is(err, context.Canceled) {
		v.logger.Info("stream ended", slog.String("error", err.Error()))
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// parseStreamRequest reads the scenario (embedded by name, or random=1 for a
// generated grid), the algorithm, epsilon and the delay between steps.
func (v *visualiser) parseStreamRequest(q url.Values) (streamRequest, error) {
	req := streamRequest{
		algorithm: q.Get("algorithm"),
		epsilon:   1,
		delay:     defaultStepDelay,
	}
	if req.algorithm == "" {
		req.algorithm = hipster.StrategyAStar
	}
	if err := validStrategy(req.algorithm); err != nil {
		return req, err
	}
	if raw := q.Get("epsilon"); raw != "" {
		epsilon, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("epsilon: %w", err)
		}
		if epsilon < 1 {
			return req, fmt.Errorf("%w: %v", algorithm.ErrInvalidEpsilon, epsilon)
		}
		req.epsilon = epsilon
	}
	if raw := q.Get("delay"); raw != "" {
		delay, err := time.ParseDuration(raw)
		if err != nil || delay < 0 || delay > maxStepDelay {
			return req, fmt.Errorf("delay must be a duration between 0 and %s", maxStepDelay)
		}
		req.delay = delay
	}

	if q.Get("random") != "" {
		req.scenario = v.randomScenario(q)
		return req, nil
	}
	s, err := scenario.LoadBuiltin(q.Get("scenario"))
	if err != nil {
		return req, err
	}
	req.scenario = s
	return req, nil
}

func (v *visualiser) randomScenario(q url.Values) *scenario.Scenario {
	width, height := 40, 24
	clusters, steps := 8, 200
	density := 0.25
	if n, err := strconv.Atoi(q.Get("w")); err == nil && n > 4 && n <= 200 {
		width = n
	}
	if n, err := strconv.Atoi(q.Get("h")); err == nil && n > 4 && n <= 200 {
		height = n
	}
	if n, err := strconv.Atoi(q.Get("clusters")); err == nil && n > 0 {
		clusters = n
	}
	if n, err := strconv.Atoi(q.Get("steps")); err == nil && n > 0 {
		steps = n
	}
	if f, err := strconv.ParseFloat(q.Get("density"), 64); err == nil && f >= 0 && f <= 1 {
		density = f
	}
	rng := v.rng()
	if seed, err := strconv.ParseInt(q.Get("seed"), 10, 64); err == nil {
		rng = rand.New(rand.NewSource(seed))
	}
	grid := problem.RandomGrid(width, height, clusters, steps, density, rng)
	return &scenario.Scenario{Name: "random", Kind: scenario.KindGrid, Rows: grid.Rows()}
}

func streamScenario(ctx context.Context, conn *websocket.Conn, req streamRequest) error {
	setup := frame{
		Type:      "setup",
		Scenario:  req.scenario.Name,
		Kind:      string(req.scenario.Kind),
		Algorithm: req.algorithm,
		Rows:      req.scenario.Rows,
	}
	if err := writeFrame(conn, setup); err != nil {
		return err
	}
	switch req.scenario.Kind {
	case scenario.KindGrid:
		grid, err := req.scenario.Grid()
		if err != nil {
			return err
		}
		return streamProblem[problem.Point](ctx, conn, grid, req)
	default:
		graph, err := req.scenario.Graph()
		if err != nil {
			return err
		}
		return streamProblem[string](ctx, conn, graph, req)
	}
}

func streamProblem[StateType comparable](
	ctx context.Context,
	conn *websocket.Conn,
	searchProblem problem.Heuristic[StateType, float64],
	req streamRequest,
) error {
	_, err := withSearch(searchProblem, req.algorithm, req.epsilon,
		func(search *hipster.Search[StateType, float64]) (struct{}, error) {
			return struct{}{}, streamSteps(ctx, conn, hipster.NewStepper(search), req.delay)
		},
		func(search *hipster.Search[StateType, algorithm.Unweighted]) (struct{}, error) {
			return struct{}{}, streamSteps(ctx, conn, hipster.NewStepper(search), req.delay)
		},
	)
	return err
}

// streamSteps writes one frame per step until the stepper is done, the
// strategy fails or ctx is cancelled.
func streamSteps[StateType comparable, CostType any](
	ctx context.Context,
	conn *websocket.Conn,
	stepper *hipster.Stepper[StateType, CostType],
	delay time.Duration,
) error {
	for {
		snapshot, stepErr := stepper.Step()
		f := frame{
			Type:  "step",
			Step:  snapshot.StepIndex,
			Done:  snapshot.Done,
			Found: snapshot.Found,
			Path:  formatStates(snapshot.Path),
		}
		if snapshot.Current != nil {
			f.Current = fmt.Sprint(snapshot.Current.State())
			f.Cost = formatCost(snapshot.Current)
		}
		if stepErr != nil {
			f.Error = stepErr.Error()
		}
		if err := writeFrame(conn, f); err != nil {
			return err
		}
		if snapshot.Done {
			return stepErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func writeFrame(conn *websocket.Conn, f frame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(f)
}
