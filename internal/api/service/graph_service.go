package service

import (
	"context"
	"errors"
	"time"

	"mediaflow"
	"mediaflow/internal/api/models"
	"mediaflow/internal/api/repo"
	"mediaflow/internal/engine"
	"mediaflow/internal/provider"
	"mediaflow/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrNoProviderConfigured = errors.New("No API keys configured. Please configure OpenAI and/or fal.ai API keys first.")

// ConfiguredProvider is an OperationProvider that knows which of its
// backends are usable.
type ConfiguredProvider interface {
	engine.OperationProvider
	TextConfigured() bool
	MediaConfigured() bool
}

// ProviderFactory builds the provider for one request from the caller's keys.
type ProviderFactory func(keys provider.Keys) ConfiguredProvider

// RunStore records run summaries.
type RunStore interface {
	Create(run *models.RunRecord) error
}

type ProviderStatus struct {
	OpenAIConfigured bool `json:"openai_configured"`
	FalConfigured    bool `json:"fal_configured"`
}

func (s ProviderStatus) Any() bool {
	return s.OpenAIConfigured || s.FalConfigured
}

type GraphService struct {
	credentials *CredentialService
	providers   ProviderFactory
	runs        RunStore
	publisher   realtime.Publisher
	tenantID    string
	execConfig  engine.ExecutorConfig
	logger      zerolog.Logger
}

type GraphServiceDeps struct {
	Credentials *CredentialService
	Providers   ProviderFactory
	// Runs and Publisher are optional.
	Runs       RunStore
	Publisher  realtime.Publisher
	TenantID   string
	ExecConfig engine.ExecutorConfig
	Logger     zerolog.Logger
}

func NewGraphService(deps GraphServiceDeps) *GraphService {
	return &GraphService{
		credentials: deps.Credentials,
		providers:   deps.Providers,
		runs:        deps.Runs,
		publisher:   deps.Publisher,
		tenantID:    deps.TenantID,
		execConfig:  deps.ExecConfig,
		logger:      deps.Logger,
	}
}

// NewGraphServiceFromConfig wires the service on the globals set by
// mediaflow.InitConfig.
func NewGraphServiceFromConfig(publisher realtime.Publisher) *GraphService {
	cfg := mediaflow.GetConfig()
	logger := mediaflow.Logger

	var store CredentialStore = NewMemoryCredentialStore()
	if mediaflow.Redis != nil {
		store = NewRedisCredentialStore(mediaflow.Redis)
	}

	var runs RunStore
	if mediaflow.DB != nil {
		runs = repo.NewRunRepository(mediaflow.DB)
	}

	providerConfig := provider.Config{
		TextBackend:   cfg.Providers.TextBackend,
		OpenAIBaseURL: cfg.Providers.OpenAIBaseURL,
		OpenAIModel:   cfg.Providers.OpenAIModel,
		OllamaHost:    cfg.Providers.OllamaHost,
		OllamaModel:   cfg.Providers.OllamaModel,
		FalBaseURL:    cfg.Providers.FalBaseURL,
		Media:         provider.DefaultMediaDefaults(),
		HTTPTimeout:   cfg.Providers.HTTPTimeout,
	}

	return NewGraphService(GraphServiceDeps{
		Credentials: NewCredentialService(store, provider.Keys{
			OpenAI: cfg.Providers.OpenAIKey,
			Fal:    cfg.Providers.FalKey,
		}, logger),
		Providers: func(keys provider.Keys) ConfiguredProvider {
			return provider.NewManager(providerConfig, keys, logger)
		},
		Runs:      runs,
		Publisher: publisher,
		TenantID:  cfg.Realtime.TenantID,
		ExecConfig: engine.ExecutorConfig{
			BaseURL:     cfg.PublicBaseURL,
			NodeTimeout: cfg.NodeTimeout,
		},
		Logger: logger,
	})
}

func (slf *GraphService) Validate(g *engine.Graph) engine.ValidationResult {
	return engine.Validate(g)
}

// Status reports which providers owner can use.
func (slf *GraphService) Status(ctx context.Context, owner string) (ProviderStatus, error) {
	keys, err := slf.credentials.Keys(ctx, owner)
	if err != nil {
		return ProviderStatus{}, err
	}
	return statusOf(slf.providers(keys)), nil
}

// Configure stores provider keys for owner and reports the resulting status.
func (slf *GraphService) Configure(ctx context.Context, owner string, keys provider.Keys) (ProviderStatus, error) {
	effective, err := slf.credentials.Configure(ctx, owner, keys)
	if err != nil {
		return ProviderStatus{}, err
	}
	return statusOf(slf.providers(effective)), nil
}

// ResetKeys drops the keys stored for owner and reports the resulting status.
func (slf *GraphService) ResetKeys(ctx context.Context, owner string) (ProviderStatus, error) {
	effective, err := slf.credentials.Reset(ctx, owner)
	if err != nil {
		return ProviderStatus{}, err
	}
	return statusOf(slf.providers(effective)), nil
}

func statusOf(p ConfiguredProvider) ProviderStatus {
	return ProviderStatus{OpenAIConfigured: p.TextConfigured(), FalConfigured: p.MediaConfigured()}
}

func (slf *GraphService) executor(ctx context.Context, owner string) (*engine.Executor, error) {
	keys, err := slf.credentials.Keys(ctx, owner)
	if err != nil {
		return nil, err
	}

	p := slf.providers(keys)
	if !statusOf(p).Any() {
		return nil, ErrNoProviderConfigured
	}
	return engine.NewExecutor(p, slf.execConfig, slf.logger), nil
}

// Run executes g to completion.
func (slf *GraphService) Run(ctx context.Context, owner string, g *engine.Graph) (string, engine.ExecutionResult, error) {
	exec, err := slf.executor(ctx, owner)
	if err != nil {
		return "", engine.ExecutionResult{}, err
	}

	runID := uuid.NewString()
	log := slf.logger.With().Str("runId", runID).Logger()
	log.Info().Int("nodes", len(g.Nodes)).Int("edges", len(g.Edges)).Msg("starting graph execution")

	startedAt := time.Now()
	result := exec.Execute(ctx, g)

	summary := engine.SummaryEvent(result)
	realtime.NewProgressReporter(slf.publisher, slf.tenantID, runID, slf.logger).Report(summary)
	slf.record(runID, owner, models.RunModeBatch, g, result.Success, result.Errors, startedAt)

	log.Info().Bool("success", result.Success).Int("errors", len(result.Errors)).Dur("elapsed", time.Since(startedAt)).Msg("graph execution finished")
	return runID, result, nil
}

// Stream executes g and returns its event stream. Every event is also
// published on the run's progress subject.
func (slf *GraphService) Stream(ctx context.Context, owner string, g *engine.Graph) (string, <-chan engine.Event, error) {
	exec, err := slf.executor(ctx, owner)
	if err != nil {
		return "", nil, err
	}

	runID := uuid.NewString()
	reporter := realtime.NewProgressReporter(slf.publisher, slf.tenantID, runID, slf.logger)
	slf.logger.Info().Str("runId", runID).Int("nodes", len(g.Nodes)).Msg("starting streaming graph execution")

	startedAt := time.Now()
	in := exec.ExecuteStreaming(ctx, g)
	out := make(chan engine.Event)

	go func() {
		defer close(out)

		var last engine.Event
		for ev := range in {
			reporter.Report(ev)
			last = ev
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}

		if !last.Terminal() {
			slf.logger.Warn().Str("runId", runID).Msg("stream ended before completion")
			return
		}
		success := last.Success != nil && *last.Success
		slf.record(runID, owner, models.RunModeStream, g, success, last.Errors, startedAt)
	}()

	return runID, out, nil
}

func (slf *GraphService) record(runID, owner string, mode models.RunMode, g *engine.Graph, success bool, errs []string, startedAt time.Time) {
	if slf.runs == nil {
		return
	}

	finishedAt := time.Now()
	run := &models.RunRecord{
		RunID:      runID,
		Owner:      ownerOrDefault(owner),
		Mode:       mode,
		Success:    success,
		NodeCount:  len(g.Nodes),
		EdgeCount:  len(g.Edges),
		Errors:     models.ErrorList(errs),
		Duration:   finishedAt.Sub(startedAt),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	if err := slf.runs.Create(run); err != nil {
		slf.logger.Error().Err(err).Str("runId", runID).Msg("Error recording run")
	}
}
